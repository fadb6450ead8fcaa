package agent

import (
	"context"

	"github.com/jonesrussell/goclone/internal/clone"
)

// CloneToolName is the tool name the conversational layer dispatches on.
const CloneToolName = "clone_website"

// Cloner runs clone requests. Implemented by *clone.Service.
type Cloner interface {
	CloneWebsite(ctx context.Context, url string) (*clone.Result, error)
}

// CloneTool adapts the clone service to the tool interface. Its single
// positional argument is the target URL.
type CloneTool struct {
	cloner Cloner
}

// NewCloneTool creates the clone tool over the given service.
func NewCloneTool(cloner Cloner) *CloneTool {
	return &CloneTool{cloner: cloner}
}

// Name returns the tool name.
func (t *CloneTool) Name() string {
	return CloneToolName
}

// Description documents the tool for the dispatching model.
func (t *CloneTool) Description() string {
	return "Clone a website into a self-contained local archive. " +
		"Takes the absolute http(s) URL of the page to clone."
}

// Invoke clones the given URL and returns the result as a JSON observation.
func (t *CloneTool) Invoke(ctx context.Context, arg string) (string, error) {
	result, err := t.cloner.CloneWebsite(ctx, arg)
	if err != nil {
		return "", err
	}
	return marshalObservation(result)
}
