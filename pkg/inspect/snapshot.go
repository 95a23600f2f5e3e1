package inspect

// Wire types for the REST endpoints. Field names are part of the HTTP API.

type graphSnapshot struct {
	Evaluations      uint64 `json:"evaluations"`
	DirtyMarks       uint64 `json:"dirty_marks"`
	LinksCreated     uint64 `json:"links_created"`
	LinksReleased    uint64 `json:"links_released"`
	LiveLinks        uint64 `json:"live_links"`
	ActiveAnimations int    `json:"active_animations"`
}

type modelSummary struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

type modelRows struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
	From  int    `json:"from"`
	Rows  []any  `json:"rows"`
}

type repeaterSnapshot struct {
	Name      string `json:"name"`
	Created   uint64 `json:"created"`
	Destroyed uint64 `json:"destroyed"`
	Updated   uint64 `json:"updated"`
	Reused    uint64 `json:"reused"`
	Live      int    `json:"live"`
}

// streamFrame is one event on the /ws stream. Dropped reports how many
// frames were lost to backpressure immediately before this one.
type streamFrame struct {
	Seq     uint64 `json:"seq"`
	Kind    string `json:"kind"`
	Cell    uint64 `json:"cell"`
	Name    string `json:"name,omitempty"`
	Dropped uint64 `json:"dropped,omitempty"`
}
