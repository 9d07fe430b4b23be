package report

import (
	"encoding/json"
	"strings"
)

// Node is one business-process module in the generated ecosystem graph.
type Node struct {
	ID             string `json:"id"`
	Name           string `json:"nombre"`
	Description    string `json:"descripcion"`
	AIIntervention string `json:"intervencion_IA"`
}

// Relation connects two nodes with a description of their AI collaboration.
type Relation struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Description string `json:"descripcion"`
}

// Graph is the node/relation structure the ecosystem prompt asks for.
type Graph struct {
	Nodes     []Node     `json:"nodos"`
	Relations []Relation `json:"relaciones"`
}

// Ecosystem wraps the parsed graph. When the model response is not valid
// JSON, Raw carries the unparsed text instead of failing the request.
type Ecosystem struct {
	Graph *Graph `json:"ecosistema,omitempty"`
	Raw   string `json:"raw,omitempty"`
	Error string `json:"error,omitempty"`
}

// ParseEcosystem decodes the model response, tolerating a surrounding
// markdown code fence.
func ParseEcosystem(text string) *Ecosystem {
	payload := stripCodeFence(text)

	var wrapped struct {
		Graph *Graph `json:"ecosistema"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapped); err == nil && wrapped.Graph != nil {
		return &Ecosystem{Graph: wrapped.Graph}
	}

	// Some responses omit the wrapper object.
	var graph Graph
	if err := json.Unmarshal([]byte(payload), &graph); err == nil && len(graph.Nodes) > 0 {
		return &Ecosystem{Graph: &graph}
	}

	return &Ecosystem{
		Error: "no se pudo interpretar la respuesta como JSON",
		Raw:   text,
	}
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
