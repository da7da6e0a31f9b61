package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	predictionPollInterval = 2 * time.Second

	predictionSucceeded = "succeeded"
	predictionFailed    = "failed"
	predictionCanceled  = "canceled"
)

var avatarPrompts = []domain.AvatarPrompt{
	{
		TeacherID: domain.TeacherEmma,
		Name:      "Emma",
		Prompt: "A professional headshot of a 32-year-old female English teacher with shoulder-length blonde hair and blue eyes, " +
			"genuine warm smile, wearing a light blue professional blazer over white blouse, delicate gold jewelry, " +
			"soft studio lighting with white background, high quality professional portrait photography, " +
			"facing directly at camera, confident and approachable expression",
	},
	{
		TeacherID: domain.TeacherJames,
		Name:      "James",
		Prompt: "A professional headshot of a 35-year-old male English teacher with short dark hair, confident friendly smile, " +
			"wearing navy blazer with white dress shirt and burgundy tie, studio lighting, white background, " +
			"high quality business portrait photography, professional and authoritative demeanor, facing camera directly",
	},
	{
		TeacherID: domain.TeacherSofia,
		Name:      "Sofia",
		Prompt: "A professional headshot of a 28-year-old female English teacher with Mediterranean features, long dark curly hair, " +
			"warm genuine smile, wearing burgundy cardigan over cream colored top, golden skin tone, " +
			"studio lighting with soft shadows, white background, approachable and friendly expression, high quality photography",
	},
	{
		TeacherID: domain.TeacherAlex,
		Name:      "Alex",
		Prompt: "A professional headshot of a 32-year-old male English teacher with medium-length dark hair, modern styled appearance, " +
			"friendly smile, wearing charcoal grey cashmere sweater, casual professional style, studio lighting, white background, " +
			"tech-savvy look with intelligence in eyes, high quality professional photography",
	},
}

func AvatarPrompts() []domain.AvatarPrompt {
	out := make([]domain.AvatarPrompt, len(avatarPrompts))
	copy(out, avatarPrompts)
	return out
}

type AvatarStore interface {
	Upsert(ctx context.Context, a domain.TeacherAvatar) error
}

// AvatarFiles is the bucket generated images are copied into.
type AvatarFiles interface {
	Enabled() bool
	EnsureBucket(ctx context.Context) error
	UploadFromURL(ctx context.Context, prefix, src string) (string, error)
}

// AvatarUsecase generates teacher portraits through Replicate, one request at a time.
type AvatarUsecase struct {
	l      *log.Logger
	config *config.Config
	client *http.Client
	files  AvatarFiles
	store  AvatarStore

	pollInterval time.Duration
}

func NewAvatarUsecase(l *log.Logger, c *config.Config, files AvatarFiles, store AvatarStore) *AvatarUsecase {
	return &AvatarUsecase{
		l:      l.WithModule("AvatarUsecase"),
		config: c,
		client: &http.Client{Timeout: 5 * time.Minute},
		files:  files,
		store:  store,

		pollInterval: predictionPollInterval,
	}
}

// Generate requests one image per prompt. Failures are logged and the teacher is skipped; a rate
// limit is waited out once. After every success but the last, avatar.delay is waited in full.
// With upload set, images are copied to the bucket and recorded.
func (u *AvatarUsecase) Generate(ctx context.Context, prompts []domain.AvatarPrompt, upload bool) ([]domain.AvatarResult, error) {
	if u.config.Avatar.ApiKey == "" {
		return nil, fmt.Errorf("avatar.api_key (REPLICATE_API_TOKEN) is not set")
	}

	toBucket := false
	if upload && u.files != nil && u.files.Enabled() {
		if err := u.files.EnsureBucket(ctx); err != nil {
			u.l.Error("bucket not ready, keeping replicate urls", log.Error(err))
		} else {
			toBucket = true
		}
	}

	results := make([]domain.AvatarResult, 0, len(prompts))
	for i, p := range prompts {
		u.l.Info("generating avatar", log.String("teacher", p.Name), log.Int("n", i+1), log.Int("of", len(prompts)))

		start := time.Now()
		res := domain.AvatarResult{TeacherID: p.TeacherID, Name: p.Name}
		url, err := u.predict(ctx, p.Prompt)
		if errors.Is(err, domain.ErrRateLimited) {
			u.l.Warn("rate limited, waiting before retry", log.String("teacher", p.Name), log.Duration("wait", u.config.Avatar.RateLimitDelay))
			if err := u.sleep(ctx, u.config.Avatar.RateLimitDelay); err != nil {
				return results, err
			}
			res.Retried = true
			url, err = u.predict(ctx, p.Prompt)
		}
		res.Took = time.Since(start)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			u.l.Error("avatar generation failed", log.String("teacher", p.Name), log.Error(err))
			res.Err = err
			results = append(results, res)
			continue
		}
		res.URL = url
		u.l.Info("avatar generated", log.String("teacher", p.Name), log.String("url", url), log.Duration("took", res.Took))

		if upload {
			res.URL = u.keep(ctx, p, url, toBucket)
		}
		results = append(results, res)

		if i < len(prompts)-1 && u.config.Avatar.Delay > 0 {
			u.l.Info("waiting before next avatar", log.Duration("wait", u.config.Avatar.Delay))
			if err := u.sleep(ctx, u.config.Avatar.Delay); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

// keep copies the image into the bucket when toBucket is set and records it. It returns the
// reference that should be used from now on.
func (u *AvatarUsecase) keep(ctx context.Context, p domain.AvatarPrompt, src string, toBucket bool) string {
	ref := src
	if toBucket {
		stored, err := u.files.UploadFromURL(ctx, "avatars/"+string(p.TeacherID), src)
		if err != nil {
			u.l.Error("upload avatar failed", log.String("teacher", p.Name), log.Error(err))
		} else {
			ref = stored
		}
	}
	if u.store == nil {
		return ref
	}
	err := u.store.Upsert(ctx, domain.TeacherAvatar{TeacherID: p.TeacherID, Name: p.Name, URL: ref, Source: src})
	if err != nil {
		u.l.Warn("record avatar failed", log.String("teacher", p.Name), log.Error(err))
	}
	return ref
}

// sleep waits d, logging the remaining time every avatar.progress_interval.
func (u *AvatarUsecase) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	deadline := time.Now().Add(d)
	timer := time.NewTimer(d)
	defer timer.Stop()

	var tick <-chan time.Time
	if u.config.Avatar.ProgressInterval > 0 {
		ticker := time.NewTicker(u.config.Avatar.ProgressInterval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case now := <-tick:
			if remaining := deadline.Sub(now).Round(time.Second); remaining > 0 {
				u.l.Info("waiting", log.Duration("remaining", remaining))
			}
		}
	}
}

// predict runs one prediction and returns the first output URL.
func (u *AvatarUsecase) predict(ctx context.Context, prompt string) (string, error) {
	base := strings.TrimRight(u.config.Avatar.BaseUrl, "/")
	body := map[string]any{
		"input": map[string]any{
			"prompt":      prompt,
			"num_outputs": 1,
		},
	}
	endpoint := fmt.Sprintf("%s/models/%s/predictions", base, u.config.Avatar.Model)
	if model, version, ok := strings.Cut(u.config.Avatar.Model, ":"); ok && model != "" {
		endpoint = base + "/predictions"
		body["version"] = version
	}

	p, err := u.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", err
	}
	for p.Status != predictionSucceeded {
		switch p.Status {
		case predictionFailed, predictionCanceled:
			return "", fmt.Errorf("prediction %s %s: %s", p.ID, p.Status, p.Error)
		}
		if p.ID == "" {
			return "", fmt.Errorf("prediction has no id (status %q)", p.Status)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(u.pollInterval):
		}
		p, err = u.do(ctx, http.MethodGet, base+"/predictions/"+p.ID, nil)
		if err != nil {
			return "", err
		}
	}
	if len(p.Output) == 0 || p.Output[0] == "" {
		return "", fmt.Errorf("prediction %s returned no output", p.ID)
	}
	return p.Output[0], nil
}

func (u *AvatarUsecase) do(ctx context.Context, method, url string, body any) (*domain.Prediction, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.config.Avatar.ApiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "wait")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: 429 Too Many Requests: %s", domain.ErrRateLimited, strings.TrimSpace(string(data)))
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("replicate returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var p domain.Prediction
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &p, nil
}
