package semantic

import "github.com/wudi/pdfakit/ir/raw"

// Action represents a PDF action.
type Action interface {
	ActionType() string
	NextActions() []Action
}

// ActionBase carries the fields shared by every action dictionary.
type ActionBase struct {
	Next        []Action // /Next
	OriginalRef raw.ObjectRef
	Dirty       bool
}

func (a ActionBase) NextActions() []Action { return a.Next }

// URIAction represents a URI action.
type URIAction struct {
	ActionBase
	URI string
}

func (a URIAction) ActionType() string { return "URI" }

// GoToAction represents a GoTo action.
type GoToAction struct {
	ActionBase
	PageIndex int
}

func (a GoToAction) ActionType() string { return "GoTo" }

// GoToRAction represents a remote go-to action.
type GoToRAction struct {
	ActionBase
	File     string
	DestName string
}

func (a GoToRAction) ActionType() string { return "GoToR" }

// GoToEAction represents an embedded go-to action.
type GoToEAction struct {
	ActionBase
	DestName string
}

func (a GoToEAction) ActionType() string { return "GoToE" }

// JavaScriptAction represents a JavaScript action.
type JavaScriptAction struct {
	ActionBase
	JS string
}

func (a JavaScriptAction) ActionType() string { return "JavaScript" }

// NamedAction represents a named action (e.g., NextPage, PrevPage).
type NamedAction struct {
	ActionBase
	Name string
}

func (a NamedAction) ActionType() string { return "Named" }

// LaunchAction represents a launch action.
type LaunchAction struct {
	ActionBase
	File string
}

func (a LaunchAction) ActionType() string { return "Launch" }

// SubmitFormAction represents a submit-form action.
type SubmitFormAction struct {
	ActionBase
	URL   string
	Flags int
}

func (a SubmitFormAction) ActionType() string { return "SubmitForm" }

// ResetFormAction represents a reset-form action.
type ResetFormAction struct {
	ActionBase
	Fields []string
}

func (a ResetFormAction) ActionType() string { return "ResetForm" }

// ImportDataAction represents an import-data action.
type ImportDataAction struct {
	ActionBase
	File string
}

func (a ImportDataAction) ActionType() string { return "ImportData" }

// HideAction represents a hide action.
type HideAction struct {
	ActionBase
	TargetName string
	Hide       bool
}

func (a HideAction) ActionType() string { return "Hide" }

// SoundAction represents a sound action.
type SoundAction struct {
	ActionBase
}

func (a SoundAction) ActionType() string { return "Sound" }

// MovieAction represents a movie action.
type MovieAction struct {
	ActionBase
	Title string
}

func (a MovieAction) ActionType() string { return "Movie" }

// ThreadAction represents a thread action.
type ThreadAction struct {
	ActionBase
}

func (a ThreadAction) ActionType() string { return "Thread" }

// GenericAction covers action types without a dedicated model, such as
// SetOCGState, Rendition, Trans, GoTo3DView or RichMediaExecute.
type GenericAction struct {
	ActionBase
	S string
}

func (a GenericAction) ActionType() string { return a.S }

// WalkActions calls fn for a and every action reachable through /Next.
// Chains deeper than maxActionDepth are cut off.
func WalkActions(a Action, fn func(Action)) {
	walkActions(a, fn, 0)
}

const maxActionDepth = 64

func walkActions(a Action, fn func(Action), depth int) {
	if a == nil || depth > maxActionDepth {
		return
	}
	fn(a)
	for _, next := range a.NextActions() {
		walkActions(next, fn, depth+1)
	}
}
