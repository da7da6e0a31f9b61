package main

import (
	"context"
	"encoding/json"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"englishtalk/usecase"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// progress goes to stderr so stdout stays pipeable JSON
func newStderrLogger(c *config.Config) *log.Logger {
	return log.NewLoggerWithWriter(os.Stderr, slog.Level(c.Log.Level))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		upload         bool
		teachers       []string
		delay          time.Duration
		rateLimitDelay time.Duration
	)
	cmd := &cobra.Command{
		Use:   "avatars",
		Short: "Generate teacher portraits with Replicate",
		Long: "Requests one portrait per teacher, one at a time, pausing between requests to stay under the\n" +
			"free-tier rate limit. Prints a JSON object of teacher name to image URL.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := InitializeApp()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("delay") {
				app.config.Avatar.Delay = delay
			}
			if cmd.Flags().Changed("rate-limit-delay") {
				app.config.Avatar.RateLimitDelay = rateLimitDelay
			}
			upload = upload || app.config.Avatar.Upload

			prompts, err := selectPrompts(teachers)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, app, prompts, upload)
		},
	}
	cmd.Flags().BoolVar(&upload, "upload", false, "copy images into the oss bucket and record them in teacher_avatars")
	cmd.Flags().StringSliceVar(&teachers, "teacher", nil, "only these teachers (by name), e.g. --teacher Emma,Alex")
	cmd.Flags().DurationVar(&delay, "delay", 0, "pause between requests (default avatar.delay)")
	cmd.Flags().DurationVar(&rateLimitDelay, "rate-limit-delay", 0, "pause before retrying a rate-limited request (default avatar.rate_limit_delay)")
	return cmd
}

func selectPrompts(names []string) ([]domain.AvatarPrompt, error) {
	all := usecase.AvatarPrompts()
	if len(names) == 0 {
		return all, nil
	}
	picked := lo.Filter(all, func(p domain.AvatarPrompt, _ int) bool {
		return lo.ContainsBy(names, func(n string) bool { return strings.EqualFold(n, p.Name) })
	})
	if len(picked) == 0 {
		return nil, fmt.Errorf("no teacher matches %v", names)
	}
	return picked, nil
}

func run(ctx context.Context, app *App, prompts []domain.AvatarPrompt, upload bool) error {
	results, err := app.avatars.Generate(ctx, prompts, upload)

	ok := lo.Filter(results, func(r domain.AvatarResult, _ int) bool { return r.Err == nil })
	urls := lo.SliceToMap(ok, func(r domain.AvatarResult) (string, string) { return r.Name, r.URL })
	out, merr := json.MarshalIndent(urls, "", "  ")
	if merr != nil {
		return merr
	}
	fmt.Println(string(out))
	app.logger.Info("done", log.Int("generated", len(ok)), log.Int("failed", len(results)-len(ok)))
	return err
}
