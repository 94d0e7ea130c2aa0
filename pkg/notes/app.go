package notes

import (
	"context"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/framenotes/pkg/core"
	"github.com/aretw0/framenotes/pkg/drawing"
	"github.com/aretw0/framenotes/pkg/theme"
	"github.com/aretw0/framenotes/pkg/view"
)

// Mode is the screen currently shown.
type Mode string

const (
	ModeList    Mode = "list"
	ModeHidden  Mode = "hidden"
	ModeEditor  Mode = "editor"
	ModeDrawing Mode = "drawing"
)

// App is the top-level controller. It owns the collection, the open note
// and the drawing session, and interprets the back action for the
// current screen.
type App struct {
	lib    *Library
	themes *theme.Store

	mu           sync.Mutex
	mode         Mode
	listMode     Mode
	query        string
	theme        theme.ID
	editor       *Editor
	session      *drawing.Session
	drawingBlock string
}

// NewApp creates a controller showing the note list.
// themes may be nil, in which case the theme is kept in memory only.
func NewApp(lib *Library, themes *theme.Store) *App {
	return &App{
		lib:      lib,
		themes:   themes,
		mode:     ModeList,
		listMode: ModeList,
		theme:    theme.Default,
	}
}

// Start loads the collection and the theme preference.
func (a *App) Start(ctx context.Context) error {
	if err := a.lib.Load(ctx); err != nil {
		return err
	}
	if a.themes != nil {
		id := a.themes.Load(ctx)
		a.mu.Lock()
		a.theme = id
		a.mu.Unlock()
	}
	return nil
}

// Library returns the note collection.
func (a *App) Library() *Library {
	return a.lib
}

// Mode returns the current screen.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Editor returns the open note editor, or nil.
func (a *App) Editor() *Editor {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.editor
}

// NewNote opens the editor on a blank note.
func (a *App) NewNote(ctx context.Context) (*Editor, error) {
	return a.openEditor(ctx, a.lib.Create())
}

// Open opens the editor on a stored note. An unknown id leaves the current
// screen unchanged.
func (a *App) Open(ctx context.Context, id string) (*Editor, bool, error) {
	e, ok := a.lib.Open(id)
	if !ok {
		return nil, false, nil
	}
	_, err := a.openEditor(ctx, e)
	return e, true, err
}

func (a *App) openEditor(ctx context.Context, e *Editor) (*Editor, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeDrawingLocked()
	err := a.closeEditorLocked(ctx)
	a.editor = e
	a.mode = ModeEditor
	return e, err
}

// OpenDrawing starts a drawing session over a media block of the open note.
// cfg.Paths is replaced by the block's drawings.
func (a *App) OpenDrawing(blockID string, cfg drawing.Config) (*drawing.Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.editor == nil || a.mode != ModeEditor {
		return nil, false
	}
	b, ok := a.editor.Blocks().Get(blockID)
	if !ok || !b.Type.IsMedia() {
		return nil, false
	}
	cfg.Paths = b.Drawings
	a.session = drawing.NewSession(cfg)
	a.drawingBlock = blockID
	a.mode = ModeDrawing
	return a.session, true
}

// Drawing returns the active drawing session, or nil.
func (a *App) Drawing() *drawing.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// SaveDrawing stores the session's paths on its block and returns to the
// editor.
func (a *App) SaveDrawing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return false
	}
	paths := a.session.Save()
	if paths != nil && a.editor != nil {
		a.editor.Blocks().UpdateDrawings(a.drawingBlock, paths)
	}
	a.session = nil
	a.drawingBlock = ""
	a.mode = ModeEditor
	return true
}

// CancelDrawing discards the session and returns to the editor.
func (a *App) CancelDrawing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return false
	}
	a.closeDrawingLocked()
	a.mode = ModeEditor
	return true
}

func (a *App) closeDrawingLocked() {
	if a.session != nil {
		a.session.Cancel()
	}
	a.session = nil
	a.drawingBlock = ""
}

func (a *App) closeEditorLocked(ctx context.Context) error {
	if a.editor == nil {
		return nil
	}
	e := a.editor
	a.editor = nil
	_, err := e.Flush(ctx)
	e.Close()
	return err
}

// Back performs the back action for the current screen and reports
// whether the application should exit. Leaving the editor commits any
// pending change first.
func (a *App) Back(ctx context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.mode {
	case ModeDrawing:
		a.closeDrawingLocked()
		a.mode = ModeEditor
	case ModeEditor:
		err := a.closeEditorLocked(ctx)
		a.mode = a.listMode
		return false, err
	case ModeHidden:
		a.mode = ModeList
		a.listMode = ModeList
	default:
		return true, nil
	}
	return false, nil
}

// ToggleHidden switches between the regular and the hidden list.
func (a *App) ToggleHidden() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.mode {
	case ModeList:
		a.mode = ModeHidden
	case ModeHidden:
		a.mode = ModeList
	default:
		return a.mode
	}
	a.listMode = a.mode
	return a.mode
}

// SetQuery sets the search query of the list.
func (a *App) SetQuery(q string) {
	a.mu.Lock()
	a.query = q
	a.mu.Unlock()
}

// Query returns the search query of the list.
func (a *App) Query() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.query
}

// Visible returns the notes of the current list.
func (a *App) Visible() []core.Note {
	a.mu.Lock()
	opts := view.Options{Hidden: a.listMode == ModeHidden, Query: a.query}
	a.mu.Unlock()
	return a.lib.View(opts)
}

// Delete removes a note, discarding the editor if it is open on it.
func (a *App) Delete(ctx context.Context, id string) (bool, error) {
	a.mu.Lock()
	if a.editor != nil && a.editor.ID() == id {
		a.closeDrawingLocked()
		a.editor.Discard()
		a.editor = nil
		a.mode = a.listMode
	}
	a.mu.Unlock()
	return a.lib.Delete(ctx, id)
}

// Theme returns the application theme.
func (a *App) Theme() theme.ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.theme
}

// SetTheme changes and persists the application theme.
func (a *App) SetTheme(ctx context.Context, id theme.ID) error {
	if a.themes != nil {
		if err := a.themes.Save(ctx, id); err != nil {
			return err
		}
	} else if !id.Valid() {
		return errInvalidTheme(id)
	}
	a.mu.Lock()
	a.theme = id
	a.mu.Unlock()
	return nil
}

// AppState exposes internal state for observability.
type AppState struct {
	Mode    Mode     `json:"mode"`
	Query   string   `json:"query,omitempty"`
	Theme   theme.ID `json:"theme"`
	Editing string   `json:"editing,omitempty"`
	Library any      `json:"library"`
}

// State implements introspection.Introspectable.
func (a *App) State() any {
	a.mu.Lock()
	s := AppState{Mode: a.mode, Query: a.query, Theme: a.theme}
	e := a.editor
	a.mu.Unlock()
	if e != nil {
		s.Editing = e.ID()
	}
	s.Library = a.lib.State()
	return s
}

// ComponentType implements introspection.Component.
func (a *App) ComponentType() string {
	return "app"
}

var _ introspection.Introspectable = (*App)(nil)
var _ introspection.Component = (*App)(nil)
