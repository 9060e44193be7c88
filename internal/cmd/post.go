package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/formkit/internal/form"
	"github.com/salmonumbrella/formkit/internal/format"
	"github.com/salmonumbrella/formkit/internal/posts"
	"github.com/salmonumbrella/formkit/internal/submit"
)

// dryRunPreviewLen bounds each field in the text dry-run listing. The JSON
// listing carries the full post.
const dryRunPreviewLen = 72

type postOptions struct {
	title   string
	content string
	fields  []string
	timeout time.Duration
	dryRun  bool
}

func newPostCmd(app *App) *cobra.Command {
	var opts postOptions

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Submit a post to the configured endpoint",
		Long: `Sends {"title","content","author","created"} as JSON to the endpoint and
prints the reply.

If --title or --content is not given there is nothing to submit and no request
is made. A title or content of only spaces is rejected before sending.`,
		Example: `  formkit post --title "Hello" --content "First post"
  formkit post --field title=Hello --field content=World --dry-run
  formkit --endpoint https://example.com/posts post --title T --content C`,
		Args: cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			values, err := form.Parse(opts.fields)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				values[form.FieldTitle] = opts.title
			}
			if cmd.Flags().Changed("content") {
				values[form.FieldContent] = opts.content
			}

			if opts.dryRun {
				return runPostDryRun(cmd, app, values)
			}
			return runPost(cmd, app, values, opts.timeout)
		}),
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "Post title")
	cmd.Flags().StringVar(&opts.content, "content", "", "Post content")
	cmd.Flags().StringArrayVar(&opts.fields, "field", nil, "Form field as name=value (repeatable)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Request deadline, e.g. 10s (default from config, else none)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate and show the post without sending it")

	return cmd
}

func runPost(cmd *cobra.Command, app *App, values form.Values, timeout time.Duration) error {
	ctx := cmd.Context()
	if timeout <= 0 {
		timeout = app.Settings.Timeout()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	saver := &clientSaver{app: app}
	outcome, err := submit.Post(ctx, values, saver, errorDisplay(cmd, app))
	if err != nil {
		if app.IsJSON(cmd.Context()) {
			return err
		}
		return &displayedError{err: err}
	}

	if !outcome.Submitted {
		if app.IsJSON(cmd.Context()) {
			return app.PrintJSON(cmd, map[string]any{"submitted": false})
		}
		printNoResults("Nothing to submit: --title and --content are both required")
		return nil
	}

	app.logger().Debug("post submitted", "endpoint", saver.endpoint, "account", saver.account)

	if app.IsJSON(cmd.Context()) {
		return app.PrintJSON(cmd, map[string]any{
			"submitted": true,
			"post":      outcome.Post,
			"response":  outcome.Response,
		})
	}

	if app.UI != nil {
		app.UI.Success(fmt.Sprintf("Post %q submitted to %s", outcome.Post.Title, saver.endpoint))
	}
	if outcome.Response != nil {
		return app.PrintJSON(cmd, outcome.Response)
	}
	return nil
}

func runPostDryRun(cmd *cobra.Command, app *App, values form.Values) error {
	post, err := posts.ExtractPostData(values)
	if err != nil {
		if showErr := errorDisplay(cmd, app).ShowError(err.Error()); showErr != nil {
			return showErr
		}
		if app.IsJSON(cmd.Context()) {
			return err
		}
		return &displayedError{err: err}
	}
	if post == nil {
		if app.IsJSON(cmd.Context()) {
			return app.PrintJSON(cmd, map[string]any{"dryRun": true, "submitted": false})
		}
		printNoResults("Nothing to submit: --title and --content are both required")
		return nil
	}

	endpoint := app.Flags.Endpoint
	items := []string{
		"title: " + format.Truncate(post.Title, dryRunPreviewLen),
		"content: " + format.Truncate(post.Content, dryRunPreviewLen),
	}
	if endpoint != "" {
		items = append(items, "endpoint: "+endpoint)
	}
	return printDryRun(cmd, app, "Would submit post:", items, map[string]any{
		"post":     post,
		"endpoint": endpoint,
	})
}

// clientSaver builds the transport client on first use so a post with
// nothing to submit needs no endpoint or credentials.
type clientSaver struct {
	app      *App
	endpoint string
	account  string
}

func (s *clientSaver) Save(ctx context.Context, post *posts.PostData) (any, error) {
	client, account, err := s.app.Client()
	if err != nil {
		return nil, err
	}
	s.endpoint = client.Endpoint()
	s.account = account

	var opts []posts.Option
	if account != "" {
		opts = append(opts, posts.WithAuthor(account))
	}
	return posts.NewService(client, opts...).Save(ctx, post)
}

// errorDisplay is the UI in text mode. JSON mode reports errors once, as
// the structured error document.
func errorDisplay(cmd *cobra.Command, app *App) submit.ErrorDisplay {
	if app.IsJSON(cmd.Context()) || app.UI == nil {
		return discardDisplay{}
	}
	return app.UI
}

type discardDisplay struct{}

func (discardDisplay) ShowError(string) error { return nil }

// displayedError marks an error whose message the user has already seen.
// Execute prints only its suggestion.
type displayedError struct {
	err error
}

func (e *displayedError) Error() string { return e.err.Error() }

func (e *displayedError) Unwrap() error { return e.err }
