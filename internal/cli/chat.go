package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/recipe_buddy/internal/skill"
	"github.com/lewisedginton/recipe_buddy/pkg/prefixed_uuid"
)

// ChatCommand returns a command for talking to the skill from a terminal
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"bot"},
		Usage:   "Hold a conversation with the skill; type a food, yes, help or stop",
		Action:  chatAction,
	}
}

func chatAction(ctx *cli.Context) error {
	log := getLogger(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	sk, err := buildSkill(cfg, log, nil)
	if err != nil {
		return err
	}
	return runChat(ctx.Context, sk, os.Stdin, ctx.App.Writer)
}

// chatSession plays the voice platform: it turns typed lines into events and
// echoes the session attributes back on the next turn.
type chatSession struct {
	id    string
	fresh bool
	attrs skill.Attributes
}

func newChatSession() *chatSession {
	return &chatSession{
		id:    prefixed_uuid.New(prefixed_uuid.SessionPrefix).String(),
		fresh: true,
	}
}

func (c *chatSession) request(body skill.RequestBody) skill.Request {
	req := skill.Request{
		Session: skill.Session{New: c.fresh, SessionID: c.id, Attributes: c.attrs},
		Body:    body,
	}
	fillIdentifiers(&req)
	c.fresh = false
	return req
}

// utterance maps a typed line onto the intent a voice model would resolve.
func utterance(line string) skill.RequestBody {
	intent := func(name string) skill.RequestBody {
		return skill.RequestBody{Type: skill.IntentRequest, Intent: skill.Intent{Name: name}}
	}

	switch strings.ToLower(line) {
	case "help":
		return intent(skill.IntentNameHelp)
	case "stop", "quit", "exit":
		return intent(skill.IntentNameStop)
	case "cancel":
		return intent(skill.IntentNameCancel)
	case "home":
		return intent(skill.IntentNameNavigateHome)
	case "yes", "ingredients":
		return intent(skill.IntentNameListIngredients)
	}

	body := intent(skill.IntentNameFindRecipe)
	body.Intent.Slots = map[string]skill.Slot{skill.FoodSlot: {Name: skill.FoodSlot, Value: line}}
	return body
}

func runChat(ctx context.Context, h skillHandler, in io.Reader, out io.Writer) error {
	session := newChatSession()

	say := func(req skill.Request) (bool, error) {
		resp, err := h.Handle(ctx, req)
		if err != nil {
			_, werr := fmt.Fprintf(out, "error: %v\n", err)
			return false, werr
		}
		session.attrs = resp.SessionAttributes
		_, werr := fmt.Fprintf(out, "buddy: %s\n", resp.Text())
		return resp.EndsSession(), werr
	}

	if _, err := say(session.request(skill.RequestBody{Type: skill.LaunchRequest})); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		if _, err := fmt.Fprint(out, "> "); err != nil {
			return err
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ended, err := say(session.request(utterance(line)))
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	_, err := say(session.request(skill.RequestBody{Type: skill.SessionEndedRequest, Reason: "USER_INITIATED"}))
	return err
}
