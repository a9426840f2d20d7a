package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/recipe_buddy/internal/skill"
	"github.com/lewisedginton/recipe_buddy/pkg/logger"
	"github.com/lewisedginton/recipe_buddy/pkg/prefixed_uuid"
)

// InvokeCommand returns a command that runs one platform event through the skill
func InvokeCommand() *cli.Command {
	return &cli.Command{
		Name:  "invoke",
		Usage: "Handle one platform event read from a file and print the response",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "event",
				Aliases:  []string{"e"},
				Usage:    "Path to a JSON event, or - for stdin",
				Required: true,
			},
		},
		Action: invokeAction,
	}
}

func invokeAction(ctx *cli.Context) error {
	log := getLogger(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	sk, err := buildSkill(cfg, log, nil)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if path := ctx.String("event"); path != "-" {
		f, err := os.Open(path) //nolint:gosec // path is supplied by the operator
		if err != nil {
			return fmt.Errorf("failed to open event: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	ctxWithID, correlationID := logger.EnsureCorrelationID(ctx.Context)
	log.Debug("Invoking skill", logger.CorrelationIDField(correlationID))
	return invoke(ctxWithID, sk, in, ctx.App.Writer)
}

// invoke decodes one event from in, fills the identifiers a hand-written
// event usually lacks and writes the indented response to out.
func invoke(ctx context.Context, h skillHandler, in io.Reader, out io.Writer) error {
	var req skill.Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	fillIdentifiers(&req)

	resp, err := h.Handle(ctx, req)
	if err != nil {
		return fmt.Errorf("skill failed: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

type skillHandler interface {
	Handle(ctx context.Context, req skill.Request) (skill.Response, error)
}

func fillIdentifiers(req *skill.Request) {
	if req.Version == "" {
		req.Version = skill.ResponseVersion
	}
	if req.Session.SessionID == "" {
		req.Session.SessionID = prefixed_uuid.New(prefixed_uuid.SessionPrefix).String()
		req.Session.New = true
	}
	if req.Session.Application.ApplicationID == "" {
		req.Session.Application.ApplicationID = prefixed_uuid.New(prefixed_uuid.ApplicationPrefix).String()
	}
	if req.Session.User.UserID == "" {
		req.Session.User.UserID = prefixed_uuid.New(prefixed_uuid.UserPrefix).String()
	}
	if req.Body.RequestID == "" {
		req.Body.RequestID = prefixed_uuid.New(prefixed_uuid.RequestPrefix).String()
	}
	if req.Body.Timestamp == "" {
		req.Body.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
}
