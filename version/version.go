// Package version 保存构建时通过 -ldflags 注入的版本信息，
// 供 CLI 输出以及 HTTP 客户端的 User-Agent 使用。
//
//	go build -ldflags "-X github.com/lgc202/coingecko-kit/version.gitVersion=v0.1.0"
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/gosuri/uitable"
)

var (
	// gitVersion 是语义化的版本号，格式为 vMAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]
	gitVersion = "v0.0.0-dev"
	// buildDate 是 ISO8601 格式的构建时间
	buildDate = "1970-01-01T00:00:00Z"
	// gitCommit 是 $(git rev-parse HEAD) 的输出
	gitCommit = ""
	// gitTreeState 为 clean 或 dirty
	gitTreeState = ""
)

// Product 是 User-Agent 中的产品名
const Product = "coingecko-kit"

type Info struct {
	GitVersion   string `json:"gitVersion"`
	GitCommit    string `json:"gitCommit,omitempty"`
	GitTreeState string `json:"gitTreeState,omitempty"`
	BuildDate    string `json:"buildDate"`
	GoVersion    string `json:"goVersion"`
	Compiler     string `json:"compiler"`
	Platform     string `json:"platform"`
}

func (info Info) String() string {
	if info.GitTreeState == "dirty" {
		return info.GitVersion + "-dirty"
	}
	return info.GitVersion
}

// ShortString 仅返回版本号
func (info Info) ShortString() string {
	return info.GitVersion
}

// UserAgent 返回形如 "coingecko-kit/v0.1.0 (go1.24.4; linux/amd64)" 的字符串
func (info Info) UserAgent() string {
	v := strings.TrimSpace(info.GitVersion)
	if v == "" {
		v = "unknown"
	}
	return fmt.Sprintf("%s/%s (%s; %s)", Product, v, info.GoVersion, info.Platform)
}

func (info Info) ToJSON() (string, error) {
	s, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to marshal version info: %w", err)
	}
	return string(s), nil
}

func (info Info) ToJSONIndent() (string, error) {
	s, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal version info: %w", err)
	}
	return string(s), nil
}

// Text 以对齐的表格形式输出，空字段省略
func (info Info) Text() string {
	table := uitable.New()
	table.RightAlign(0)
	table.MaxColWidth = 80
	table.Separator = " "
	table.AddRow("gitVersion:", info.GitVersion)
	if info.GitCommit != "" {
		table.AddRow("gitCommit:", info.GitCommit)
	}
	if info.GitTreeState != "" {
		table.AddRow("gitTreeState:", info.GitTreeState)
	}
	table.AddRow("buildDate:", info.BuildDate)
	table.AddRow("goVersion:", info.GoVersion)
	table.AddRow("compiler:", info.Compiler)
	table.AddRow("platform:", info.Platform)
	return table.String()
}

func Get() Info {
	return Info{
		GitVersion:   gitVersion,
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		BuildDate:    buildDate,
		GoVersion:    runtime.Version(),
		Compiler:     runtime.Compiler,
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
	}
}
