package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/shapestone/shape-burp/pkg/burp"
)

func newSendCmd(a *app) *cobra.Command {
	var (
		sets   []string
		scheme string
		count  int
		rps    float64
	)

	cmd := &cobra.Command{
		Use:   "send FILE",
		Short: "Bind a request capture and dispatch it",
		Example: `  shape-burp send login.txt --set %PASS%=hunter2
  shape-burp send ping.txt --scheme http --count 20 --rate 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			if rps < 0 {
				return fmt.Errorf("--rate cannot be negative, got %g", rps)
			}

			req, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			if scheme != "" {
				t, ok := burp.ParseTransport(scheme)
				if !ok {
					return fmt.Errorf("unknown scheme %q", scheme)
				}
				req.Transport = t
			}
			if err := a.bind(req, sets); err != nil {
				return err
			}

			timeout, err := a.cfg.TimeoutDuration()
			if err != nil {
				return err
			}

			limiter := rate.NewLimiter(rate.Inf, 1)
			if rps > 0 {
				limiter = rate.NewLimiter(rate.Limit(rps), 1)
			}
			client := newClient()
			out := cmd.OutOrStdout()

			for i := 0; i < count; i++ {
				if err := limiter.Wait(cmd.Context()); err != nil {
					return err
				}
				resp, elapsed, err := dispatch(client, req, timeout)
				if err != nil {
					a.log.Error("request failed", "method", req.Method, "url", req.URL(), "error", err)
					return err
				}

				code := resp.StatusCode()
				a.log.Info("request sent", "method", req.Method, "url", req.URL(), "status", code, "elapsed", elapsed)

				_, err = fmt.Fprintf(out, "%d %s\n", code, fasthttp.StatusMessage(code))
				if err == nil {
					_, err = out.Write(resp.Body())
				}
				fasthttp.ReleaseResponse(resp)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "PLACEHOLDER=VALUE binding (repeatable)")
	cmd.Flags().StringVar(&scheme, "scheme", "", "override the transport (http or https)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of times to send the request")
	cmd.Flags().Float64Var(&rps, "rate", 0, "requests per second, 0 for no limit")
	return cmd
}

// newClient returns a client that sends headers and paths as given.
func newClient() *fasthttp.Client {
	return &fasthttp.Client{
		NoDefaultUserAgentHeader:      true,
		DisableHeaderNamesNormalizing: true,
		DisablePathNormalizing:        true,
	}
}

// dispatch sends req and returns the response, which the caller must
// release. A zero timeout waits indefinitely.
func dispatch(client *fasthttp.Client, req *burp.Request, timeout time.Duration) (*fasthttp.Response, time.Duration, error) {
	fr := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(fr)
	burp.ToFasthttp(req, fr)

	resp := fasthttp.AcquireResponse()
	start := time.Now()
	var err error
	if timeout > 0 {
		err = client.DoTimeout(fr, resp, timeout)
	} else {
		err = client.Do(fr, resp)
	}
	if err != nil {
		fasthttp.ReleaseResponse(resp)
		return nil, 0, fmt.Errorf("send %s: %w", req.URL(), err)
	}
	return resp, time.Since(start), nil
}
