// Package roster loads the character roster from a JSON document on disk or
// behind an HTTP endpoint.
package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kilianp07/raidplan/core/logger"
	"github.com/kilianp07/raidplan/core/model"
)

// ErrInvalidRoster is returned when the document is not valid JSON.
var ErrInvalidRoster = errors.New("invalid roster document")

// Config locates the roster.
type Config struct {
	// Source is a file path or an http(s) URL.
	Source string `json:"source"`
	// Owner restricts the roster to one player when set.
	Owner          string     `json:"owner"`
	TimeoutSeconds int        `json:"timeout_seconds"`
	Auth           AuthConfig `json:"auth"`
}

// SetDefaults applies default values.
func (c *Config) SetDefaults() {
	if c.Source == "" {
		c.Source = "roster.json"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 15
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("roster source is required")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("roster timeout must not be negative")
	}
	return c.Auth.Validate()
}

func (c Config) remote() bool {
	return strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://")
}

// Loader fetches and decodes the roster.
type Loader struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// NewLoader returns a Loader for cfg.
func NewLoader(cfg Config, log logger.Logger) *Loader {
	cfg.SetDefaults()
	client := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	if cfg.Auth.enabled() {
		client = cfg.Auth.wrap(client)
	}
	return &Loader{
		cfg:    cfg,
		client: client,
		log:    logger.OrNop(log),
	}
}

// Load reads the roster and applies the owner filter.
func (l *Loader) Load(ctx context.Context) ([]model.Character, error) {
	var (
		data []byte
		err  error
	)
	if l.cfg.remote() {
		data, err = l.fetch(ctx)
	} else {
		data, err = os.ReadFile(l.cfg.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	chars, skipped, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		l.log.Warnf("roster: skipped %d entries without id", skipped)
	}
	chars = FilterOwner(chars, l.cfg.Owner)
	l.log.Infof("roster: loaded %d characters from %s", len(chars), l.cfg.Source)
	return chars, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(l.cfg.Source)
	if err != nil {
		return nil, err
	}
	if l.cfg.Owner != "" {
		q := u.Query()
		q.Set("discordName", l.cfg.Owner)
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return io.ReadAll(resp.Body)
}

// Parse decodes a roster document. The root is either an array of
// characters or an object holding one under "characters". Values are read
// leniently: numbers and strings are interchangeable, unknown roles are
// damage dealers and missing flags keep their defaults. Entries without an
// id are skipped and counted.
func Parse(data []byte) ([]model.Character, int, error) {
	if !gjson.ValidBytes(data) {
		return nil, 0, ErrInvalidRoster
	}
	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("characters")
	}
	if !root.IsArray() {
		return nil, 0, fmt.Errorf("%w: expected an array of characters", ErrInvalidRoster)
	}
	var (
		out     []model.Character
		skipped int
	)
	root.ForEach(func(_, v gjson.Result) bool {
		ch := parseCharacter(v)
		if ch.ID == "" {
			skipped++
			return true
		}
		out = append(out, ch)
		return true
	})
	return out, skipped, nil
}

func parseCharacter(v gjson.Result) model.Character {
	ch := model.Character{
		ID:          strings.TrimSpace(v.Get("id").String()),
		OwnerKey:    strings.TrimSpace(v.Get("discordName").String()),
		JobCode:     strings.TrimSpace(v.Get("jobCode").String()),
		Role:        model.ParseRole(strings.ToUpper(strings.TrimSpace(v.Get("role").String()))),
		PowerLevel:  v.Get("itemLevel").Float(),
		CombatPower: v.Get("combatPower").Float(),
		FlexSupport: v.Get("valkyCanSupport").Bool(),
	}
	ch.PrefersHardest = optionalBool(v.Get("serkaNightmare"))
	ch.StandardPlanOnly = optionalBool(v.Get("standardPlanOnly"))
	return ch
}

func optionalBool(r gjson.Result) *bool {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	b := r.Bool()
	return &b
}

// FilterOwner keeps the characters of owner. An empty owner keeps all.
func FilterOwner(chars []model.Character, owner string) []model.Character {
	if owner == "" {
		return chars
	}
	var out []model.Character
	for _, ch := range chars {
		if ch.OwnerKey == owner {
			out = append(out, ch)
		}
	}
	return out
}
