package assistant

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/secure"
	"github.com/traincore/certassist/internal/store"
	"github.com/traincore/certassist/pkg/anthropic"
)

const (
	dispatchModel     = "claude-sonnet-4-5"
	dispatchMaxTokens = 2048
)

const systemPersona = `You are the assistant of a training and certificate management platform for workplace safety compliance. You help planners look up employees, schedule trainings, track certificates and their expiry dates, and keep records up to date.

Use the provided tools when the user asks for a concrete action or lookup. When updating or navigating to an employee mentioned by name, pass the name as written; the platform resolves it to a record itself. Answer in the user's language. Keep answers short and concrete.`

// Messages shown instead of raw errors. The dispatcher never surfaces a
// decode or routing failure to the user as an error string.
const (
	msgRetry     = "Let me try that differently. Could you rephrase what you'd like me to do?"
	msgMultiCall = "\n\nI handled the first request; please ask the remaining ones one at a time."
)

// Dispatcher routes one user turn to the model and, when the model selects
// a tool, to exactly one handler. Mutations run through the secure layer.
type Dispatcher struct {
	client  anthropic.Client
	store   store.Store
	mutator *secure.Mutator
	context *contextBuilder
	model   string
}

func NewDispatcher(client anthropic.Client, st store.Store, mutator *secure.Mutator, modelOverride string) *Dispatcher {
	m := dispatchModel
	if modelOverride != "" {
		m = modelOverride
	}
	return &Dispatcher{
		client:  client,
		store:   st,
		mutator: mutator,
		context: &contextBuilder{store: st},
		model:   m,
	}
}

// Handle runs one dispatch turn. Only a model-transport failure is
// returned as an error; everything else becomes a user-facing response.
func (d *Dispatcher) Handle(ctx context.Context, req model.AIRequest, actor secure.Actor) (*model.AIResponse, error) {
	system := anthropic.BuildCachedSystemBlocks(systemPersona)
	snapshot := d.context.Build(ctx)
	if req.Context != "" {
		snapshot += "\nThe user is currently looking at: " + req.Context + "\n"
	}
	system = append(system, anthropic.SystemBlock{Text: snapshot})

	messages := make([]anthropic.Message, 0, len(req.History)+1)
	for _, turn := range req.History {
		messages = append(messages, anthropic.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, anthropic.Message{Role: "user", Content: req.Message})

	resp, err := d.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     d.model,
		MaxTokens: dispatchMaxTokens,
		System:    system,
		Messages:  messages,
		Tools:     toolRegistry(),
	})
	if err != nil {
		return nil, eris.Wrap(err, "assistant: dispatch call")
	}
	resp.Usage.LogCost(d.model, "dispatch")

	calls := resp.ToolCalls()
	if len(calls) == 0 {
		return d.plainText(req.Message, resp.Text()), nil
	}

	call := calls[0]
	args, err := decodeArgs(call.ToolName, call.Input)
	if err != nil {
		if eris.Is(err, errUnknownTool) {
			zap.L().Warn("model called unregistered tool", zap.String("tool", call.ToolName))
			return d.plainText(req.Message, resp.Text()), nil
		}
		zap.L().Warn("tool argument decode failed",
			zap.String("tool", call.ToolName),
			zap.Error(err))
		return &model.AIResponse{Content: msgRetry}, nil
	}

	zap.L().Info("dispatching tool call",
		zap.String("tool", call.ToolName),
		zap.String("actor", actor.ID))

	out, err := d.route(ctx, actor, args)
	if err != nil {
		return nil, err
	}
	if len(calls) > 1 {
		out.Content += msgMultiCall
	}
	return out, nil
}

// plainText returns the model's text verbatim with keyword suggestions.
func (d *Dispatcher) plainText(userMessage, text string) *model.AIResponse {
	if text == "" {
		text = msgRetry
	}
	return &model.AIResponse{
		Content:     text,
		Suggestions: suggestFollowUps(userMessage),
	}
}

// route sends decoded arguments to the single handler for their tool.
func (d *Dispatcher) route(ctx context.Context, actor secure.Actor, args any) (*model.AIResponse, error) {
	switch a := args.(type) {
	case *updateEmployeeArgs:
		return d.handleUpdateEmployee(ctx, actor, a)
	case *navigatePageArgs:
		return d.handleNavigatePage(a), nil
	case *searchEmployeesArgs:
		return d.handleSearchEmployees(ctx, a)
	case *navigateEmployeeArgs:
		return d.handleNavigateEmployee(ctx, a)
	case *createTrainingArgs:
		return d.handleCreateTraining(ctx, actor, a)
	case *addParticipantArgs:
		return d.handleAddParticipant(ctx, actor, a)
	case *updateCertificateArgs:
		return d.handleUpdateCertificate(ctx, actor, a)
	}
	return nil, eris.Errorf("assistant: unroutable arguments %T", args)
}
