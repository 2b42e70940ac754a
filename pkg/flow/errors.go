package flow

import "fmt"

// TemplateNotFoundError reports that BaseFlow.RenderPrompt was asked for a
// template name absent from the flow's compiled template map.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("flow: template %q not found", e.Name)
}

// BlockNotFoundError reports that BaseFlow.Block was asked for an LLM
// block name absent from the flow's block map.
type BlockNotFoundError struct {
	Name string
}

func (e *BlockNotFoundError) Error() string {
	return fmt.Sprintf("flow: llm block %q not found", e.Name)
}
