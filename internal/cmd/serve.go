package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/formkit/internal/formserver"
	"github.com/salmonumbrella/formkit/internal/posts"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr, key string
		rps       float64
		burst     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept form submissions over local HTTP",
		Long: `Starts a loopback HTTP server for form pages and scripts.

  POST /calculate   num1, num2 as form fields
  POST /posts       title, content as form fields, sent to the endpoint

Every request must carry the access key in the X-Formkit-Key header. A
random key is generated unless --key is given. Replies are JSON holding
what the form's result and error areas would show.

GET /healthz and GET /metrics (Prometheus) need no key.`,
		Example: `  formkit serve
  formkit serve --addr 127.0.0.1:8080 --key secret
  curl -H "X-Formkit-Key: secret" -d num1=1 -d num2=2 http://127.0.0.1:8080/calculate`,
		Args: cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := formserver.New(
				formserver.WithAddr(addr),
				formserver.WithKey(key),
				formserver.WithSaver(serveSaver{app: app}),
				formserver.WithLogger(app.logger()),
				formserver.WithRateLimit(rps, burst),
			)
			if err != nil {
				return err
			}

			listener, err := srv.Listen()
			if err != nil {
				return err
			}

			bound := listener.Addr().String()
			app.logger().Debug("form server listening", "addr", bound)
			if app.IsJSON(cmd.Context()) {
				if err := app.PrintJSON(cmd, map[string]any{
					"addr": bound,
					"key":  srv.Key(),
				}); err != nil {
					_ = listener.Close()
					return err
				}
			} else if app.UI != nil {
				app.UI.Info(fmt.Sprintf("Listening on http://%s", bound))
				app.UI.Info(fmt.Sprintf("Access key: %s", srv.Key()))
				app.UI.Info("Press Ctrl+C to stop")
			}

			return srv.Serve(ctx, listener)
		}),
	}

	cmd.Flags().StringVar(&addr, "addr", formserver.DefaultAddr, "Listen address")
	cmd.Flags().StringVar(&key, "key", "", "Access key (default: random)")
	cmd.Flags().Float64Var(&rps, "rate", 0, "Max form submissions per second (0: unlimited)")
	cmd.Flags().IntVar(&burst, "burst", 10, "Submissions allowed in a burst when --rate is set")

	return cmd
}

// serveSaver sends each post with a fresh client. A missing endpoint is
// reported as formserver.ErrNoSaver.
type serveSaver struct {
	app *App
}

func (s serveSaver) Save(ctx context.Context, post *posts.PostData) (any, error) {
	reply, err := (&clientSaver{app: s.app}).Save(ctx, post)
	if errors.Is(err, errNoEndpoint) {
		return nil, formserver.ErrNoSaver
	}
	return reply, err
}
