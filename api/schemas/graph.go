package schemas

// -- Canonical Decision Graph Data Model --

// Node is a single state-of-the-decision in the output graph. Keys are
// deterministic strings derived from the path that produced them
// (visa-190, state:190:NSW, pw:190:NSW:general, summary:pw:190:NSW:general).
// That determinism is what makes incremental rebuilds idempotent.
type Node struct {
	Key     string `json:"key"`
	Text    string `json:"text"`
	Status  Status `json:"status"`
	Parent  string `json:"parent,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	// Expanded hints the presentation layer to render the subtree open.
	Expanded bool `json:"isTreeExpanded,omitempty"`
}

// Edge is a directed (from, to) pair connecting a parent node to a child
// node, with an optional display label.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// GraphPayload is the render contract exposed outward: a flat node list and
// link list consumed by any presentation layer. The core never depends on
// how nodes are drawn.
type GraphPayload struct {
	Nodes []Node `json:"nodes"`
	Links []Edge `json:"links"`
}

// Well-known node keys of the fixed upper graph levels.
const (
	NodeKeyStart      = "Start"
	NodeKeyOccupation = "occ"
	NodeKeyVisaList   = "elig-visas"
)

// VisaNodeKey returns the deterministic key of a visa node.
func VisaNodeKey(v VisaCode) string { return "visa-" + string(v) }

// StatesContainerKey returns the key of the states container under a visa.
func StatesContainerKey(v VisaCode) string { return "states:" + string(v) }

// StateNodeKey returns the key of a state node under a visa.
func StateNodeKey(v VisaCode, state string) string {
	return "state:" + string(v) + ":" + state
}

// PathwayNodeKey returns the key of a pathway node under a (visa, state).
func PathwayNodeKey(v VisaCode, state, pathwayID string) string {
	return "pw:" + string(v) + ":" + state + ":" + pathwayID
}

// SummaryNodeKey returns the key of the rule-summary node under a pathway.
func SummaryNodeKey(pathwayKey string) string { return "summary:" + pathwayKey }
