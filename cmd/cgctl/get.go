package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/lgc202/coingecko-kit/httpx"
)

type getOptions struct {
	query []string
	pick  string
	raw   bool
}

func newGetCmd(root *rootOptions) *cobra.Command {
	opts := &getOptions{}
	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "GET a path relative to the API root and print the JSON body",
		Example: `  cgctl get /simple/price -q ids=bitcoin -q vs_currencies=usd
  cgctl get /coins/markets -q vs_currency=eur --pick '#.symbol'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqOpts, err := opts.requestOptions()
			if err != nil {
				return err
			}
			c, logger, err := root.client()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			resp, err := c.Get(cmd.Context(), args[0], reqOpts...)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			out, err := opts.render(body)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&opts.query, "query", "q", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.pick, "pick", "", "gjson path selecting part of the response")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the body as received")
	return cmd
}

func (o *getOptions) requestOptions() ([]httpx.RequestOption, error) {
	reqOpts := make([]httpx.RequestOption, 0, len(o.query))
	for _, kv := range o.query {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid query %q, want key=value", kv)
		}
		reqOpts = append(reqOpts, httpx.WithQueryParam(strings.TrimSpace(k), v))
	}
	return reqOpts, nil
}

func (o *getOptions) render(body []byte) (string, error) {
	if o.pick != "" {
		if !gjson.ValidBytes(body) {
			return "", fmt.Errorf("response is not valid JSON")
		}
		res := gjson.GetBytes(body, o.pick)
		if !res.Exists() {
			return "", fmt.Errorf("path %q not found in response", o.pick)
		}
		if res.Type == gjson.String {
			return res.String(), nil
		}
		body = []byte(res.Raw)
	}
	if o.raw {
		return string(body), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body), nil
	}
	return buf.String(), nil
}
