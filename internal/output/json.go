package output

import (
	"time"

	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/parser"
	"github.com/poikilos/anewcommit/internal/project"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ActionOutput represents an action in JSON output.
type ActionOutput struct {
	Index            int      `json:"index"`
	ID               string   `json:"id"`
	Kind             string   `json:"kind"`
	ShouldCommit     bool     `json:"should_commit"`
	SourcePath       string   `json:"source_path,omitempty"`
	MergeMode        string   `json:"merge_mode,omitempty"`
	DisplayName      string   `json:"display_name,omitempty"`
	CapturedDate     string   `json:"captured_date,omitempty"`
	Statements       []string `json:"statements,omitempty"`
	CachedNewestFile string   `json:"cached_newest_file,omitempty"`
	FreeformCommand  string   `json:"freeform_command,omitempty"`
}

// NewActionOutput creates an ActionOutput for the action at index i.
func NewActionOutput(i int, a *model.Action) *ActionOutput {
	out := &ActionOutput{
		Index:        i,
		ID:           a.ID,
		Kind:         string(a.Kind),
		ShouldCommit: a.ShouldCommit,
	}
	if v := a.Version; v != nil {
		out.SourcePath = v.SourcePath
		out.MergeMode = string(v.MergeMode)
		out.DisplayName = v.DisplayName
		out.CapturedDate = v.CapturedDate
		out.Statements = v.Statements
		out.CachedNewestFile = v.CachedNewestFilePath
	}
	if t := a.Transition; t != nil {
		out.FreeformCommand = t.FreeformCommand
	}
	return out
}

// ActionsResponse represents the action list output in JSON.
type ActionsResponse struct {
	Path    string          `json:"path,omitempty"`
	RootDir string          `json:"root_directory,omitempty"`
	Count   int             `json:"count"`
	Actions []*ActionOutput `json:"actions"`
}

// NewActionsResponse creates an ActionsResponse from a project.
func NewActionsResponse(p *project.Project) *ActionsResponse {
	actions := p.Actions()
	outputs := make([]*ActionOutput, len(actions))
	for i, a := range actions {
		outputs[i] = NewActionOutput(i, a)
	}
	return &ActionsResponse{
		Path:    p.Path(),
		RootDir: p.RootDir(),
		Count:   len(actions),
		Actions: outputs,
	}
}

// RangeOutput represents a version range in JSON output.
type RangeOutput struct {
	Version   int    `json:"version"`
	VersionID string `json:"version_id"`
	Name      string `json:"name"`
	Lo        int    `json:"lo"`
	Hi        int    `json:"hi"`
	Indices   []int  `json:"indices"`
}

// NewRangeOutput creates a RangeOutput; actions is the list r indexes into.
func NewRangeOutput(r project.Range, actions []*model.Action) *RangeOutput {
	v := actions[r.Version]
	return &RangeOutput{
		Version:   r.Version,
		VersionID: v.ID,
		Name:      v.Name(),
		Lo:        r.Lo,
		Hi:        r.Hi,
		Indices:   r.Indices(),
	}
}

// RangesResponse represents the ranges output in JSON.
type RangesResponse struct {
	Ranges []*RangeOutput `json:"ranges"`
}

// AffectedResponse represents the affected command output in JSON.
type AffectedResponse struct {
	Index int          `json:"index"`
	Range *RangeOutput `json:"range"`
}

// ChangeOutput lists what an edit, undo or redo touched.
type ChangeOutput struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Swapped []string `json:"swapped,omitempty"`
	Indices []int    `json:"indices,omitempty"`
}

// NewChangeOutput creates a ChangeOutput from an Affected set.
func NewChangeOutput(a project.Affected) *ChangeOutput {
	return &ChangeOutput{
		Added:   a.Added,
		Removed: a.Removed,
		Swapped: a.Swapped,
		Indices: a.Indices,
	}
}

// EditResponse represents the result of a mutating command in JSON.
type EditResponse struct {
	Status  string        `json:"status"`
	Action  *ActionOutput `json:"action,omitempty"`
	Changed *ChangeOutput `json:"changed,omitempty"`
	CanUndo bool          `json:"can_undo"`
	CanRedo bool          `json:"can_redo"`
}

// StatementOutput represents a parsed statement in JSON output.
type StatementOutput struct {
	Raw         string `json:"raw"`
	Command     string `json:"command"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
	Caption     string `json:"caption"`
	Canonical   string `json:"canonical"`
}

// NewStatementOutput creates a StatementOutput from a Statement.
func NewStatementOutput(s *parser.Statement) *StatementOutput {
	return &StatementOutput{
		Raw:         s.Raw,
		Command:     s.Command,
		Source:      s.Source,
		Destination: s.Destination,
		Caption:     s.Caption(),
		Canonical:   s.String(),
	}
}

// SessionOutput represents a stored undo session in JSON output.
type SessionOutput struct {
	ProjectPath string `json:"project_path"`
	Steps       int    `json:"steps"`
	StepIndex   int    `json:"step_index"`
	Policy      string `json:"policy,omitempty"`
	UpdatedAt   string `json:"updated_at"`
}

// NewSessionOutput creates a SessionOutput from a Session.
func NewSessionOutput(s *model.Session) *SessionOutput {
	return &SessionOutput{
		ProjectPath: s.ProjectPath,
		Steps:       len(s.Steps),
		StepIndex:   s.StepIndex,
		Policy:      string(s.Policy),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

// SessionsResponse represents the sessions list output in JSON.
type SessionsResponse struct {
	Sessions []*SessionOutput `json:"sessions"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Category   string `json:"category,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PrintActions outputs the action list in JSON format.
func (j *JSONFormatter) PrintActions(p *project.Project) error {
	return j.JSON(NewActionsResponse(p))
}

// PrintRanges outputs every version range in JSON format.
func (j *JSONFormatter) PrintRanges(ranges []project.Range, actions []*model.Action) error {
	resp := RangesResponse{Ranges: make([]*RangeOutput, len(ranges))}
	for i, r := range ranges {
		resp.Ranges[i] = NewRangeOutput(r, actions)
	}
	return j.JSON(resp)
}

// PrintAffected outputs the range containing index in JSON format.
func (j *JSONFormatter) PrintAffected(index int, r project.Range, actions []*model.Action) error {
	return j.JSON(AffectedResponse{Index: index, Range: NewRangeOutput(r, actions)})
}

// PrintEdit outputs the result of a mutating command in JSON format.
// index is -1 when the edit has no single resulting action.
func (j *JSONFormatter) PrintEdit(status string, p *project.Project, index int, changed *project.Affected) error {
	resp := EditResponse{
		Status:  status,
		CanUndo: p.CanUndo(),
		CanRedo: p.CanRedo(),
	}
	if index >= 0 {
		if a, err := p.At(index); err == nil {
			resp.Action = NewActionOutput(index, a)
		}
	}
	if changed != nil {
		resp.Changed = NewChangeOutput(*changed)
	}
	return j.JSON(resp)
}

// PrintStatement outputs a parsed statement in JSON format.
func (j *JSONFormatter) PrintStatement(s *parser.Statement) error {
	return j.JSON(NewStatementOutput(s))
}

// PrintSessions outputs stored sessions in JSON format.
func (j *JSONFormatter) PrintSessions(sessions []*model.Session) error {
	resp := SessionsResponse{Sessions: make([]*SessionOutput, len(sessions))}
	for i, s := range sessions {
		resp.Sessions[i] = NewSessionOutput(s)
	}
	return j.JSON(resp)
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(resp ErrorResponse) error {
	if resp.Status == "" {
		resp.Status = "error"
	}
	return j.JSON(resp)
}
