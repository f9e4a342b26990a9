// Package link builds and reads the shareable game link
// <base>?game=<encoded state>&gameNumber=<id>.
package link

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	ParamGame       = "game"
	ParamGameNumber = "gameNumber"
)

var ErrInvalidLink = errors.New("invalid game link")

type Link struct {
	base  url.URL
	query url.Values
}

// Parse accepts a full link or a bare query string such as "game=...&gameNumber=AB12".
func Parse(raw string) (Link, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %w", ErrInvalidLink, err)
	}

	query := parsed.Query()
	if parsed.Scheme == "" && parsed.Host == "" && parsed.RawQuery == "" {
		if query, err = url.ParseQuery(raw); err != nil {
			return Link{}, fmt.Errorf("%w: %w", ErrInvalidLink, err)
		}
		parsed = &url.URL{}
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""

	return Link{base: *parsed, query: query}, nil
}

// New returns a link without parameters rooted at base.
func New(base string) (Link, error) {
	l, err := Parse(base)
	if err != nil {
		return Link{}, err
	}

	l.query = url.Values{}

	return l, nil
}

func (that Link) Game() string {
	return that.query.Get(ParamGame)
}

func (that Link) GameNumber() string {
	return that.query.Get(ParamGameNumber)
}

// With returns a copy carrying the given parameters. Empty values are dropped.
func (that Link) With(game, gameNumber string) Link {
	query := url.Values{}
	if game != "" {
		query.Set(ParamGame, game)
	}
	if gameNumber != "" {
		query.Set(ParamGameNumber, gameNumber)
	}

	return Link{base: that.base, query: query}
}

func (that Link) String() string {
	u := that.base
	u.RawQuery = that.query.Encode()

	return u.String()
}
