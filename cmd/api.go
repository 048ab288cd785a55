package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	"github.com/Kiara-243/soundcloud-scraper/internal/urls"
	"github.com/urfave/cli/v3"
)

// Classify prints the classification of a URL.
func (r *Runner) Classify(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("url")
	if raw == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	c := urls.Classify(raw)
	if cmd.Bool("json") {
		return r.writeJSON(c, true)
	}

	r.writePlain("URL: %s\n", raw)
	r.writePlain("Valid: %t\n", c.Valid)
	r.writePlain("Type: %s\n", c.Type)
	if c.Type == urls.Search {
		term := c.SearchTerm
		if !c.HasSearchTerm {
			term = "(none)"
		}
		r.writePlain("Search term: %s\n", term)
	}
	return nil
}

// APIGet makes a direct GET request against the SoundCloud API.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	params, err := parseParams(cmd.StringSlice("param"))
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.service().Raw(ctx, path, params)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("json"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// parseParams turns key=value pairs into query values.
func parseParams(pairs []string) (url.Values, error) {
	params := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: param %q must be key=value", shared.ErrInvalidFlag, pair)
		}
		params.Add(key, value)
	}
	return params, nil
}
