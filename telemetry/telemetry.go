// Package telemetry builds anonymous behaviour events and hands them to a
// Dispatcher. Entity names never leave the process in clear text.
package telemetry

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/spektr-org/tally/internal/logging"
)

// Action names the kind of event.
type Action string

const (
	ActionNavigation Action = "navigation"
	ActionPublish    Action = "publish"
)

// Medium is how the user triggered the event.
type Medium string

const (
	MediumButton   Medium = "button"
	MediumMenu     Medium = "menu"
	MediumCommand  Medium = "command"
	MediumShortcut Medium = "shortcut"
)

// Space is the area of the application the event came from.
type Space string

const (
	SpaceWorkspace Space = "workspace"
	SpaceLeftPanel Space = "left-panel"
	SpaceTerminal  Space = "terminal"
)

// Screen identifies a view.
type Screen string

const (
	ScreenScale       Screen = "scale"
	ScreenSplit       Screen = "split"
	ScreenAlign       Screen = "align"
	ScreenTable       Screen = "table"
	ScreenLeaderboard Screen = "leaderboard"
	ScreenFormats     Screen = "formats"
	ScreenGrowth      Screen = "growth"
	ScreenSchema      Screen = "schema"
)

// CommonFields are attached to every event.
type CommonFields struct {
	AppName   string `json:"app_name"`
	InstallID string `json:"install_id"`
	Version   string `json:"version"`
	IsDev     bool   `json:"is_dev"`
}

// Event is one behaviour event. IsStart is set only for publish events.
type Event struct {
	ID           string       `json:"id"`
	Time         time.Time    `json:"time"`
	Action       Action       `json:"action"`
	Common       CommonFields `json:"common"`
	EntityID     string       `json:"entity_id"`
	Medium       Medium       `json:"medium"`
	Space        Space        `json:"space"`
	SourceScreen Screen       `json:"source_screen"`
	Screen       Screen       `json:"screen_name"`
	IsStart      *bool        `json:"is_start,omitempty"`
}

// Dispatcher delivers events somewhere.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event) error
}

// Handler stamps events with common fields, an id and a time before
// dispatching them.
type Handler struct {
	dispatcher Dispatcher
	common     CommonFields
	now        func() time.Time
	newID      func() string
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// WithIDFunc replaces the random UUID generator.
func WithIDFunc(fn func() string) HandlerOption {
	return func(h *Handler) { h.newID = fn }
}

// NewHandler creates a Handler. A nil dispatcher drops every event.
func NewHandler(d Dispatcher, common CommonFields, opts ...HandlerOption) *Handler {
	if d == nil {
		d = NopDispatcher{}
	}
	h := &Handler{
		dispatcher: d,
		common:     common,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FireNavigationEvent records a move from sourceScreen to screen.
func (h *Handler) FireNavigationEvent(ctx context.Context, entityName string, medium Medium, space Space, sourceScreen, screen Screen) error {
	return h.dispatcher.Dispatch(ctx, h.event(ActionNavigation, entityName, medium, space, sourceScreen, screen))
}

// FirePublishEvent records the start or end of publishing entityName.
func (h *Handler) FirePublishEvent(ctx context.Context, entityName string, medium Medium, space Space, sourceScreen, screen Screen, isStart bool) error {
	ev := h.event(ActionPublish, entityName, medium, space, sourceScreen, screen)
	ev.IsStart = &isStart
	return h.dispatcher.Dispatch(ctx, ev)
}

func (h *Handler) event(action Action, entityName string, medium Medium, space Space, sourceScreen, screen Screen) Event {
	return Event{
		ID:           h.newID(),
		Time:         h.now().UTC(),
		Action:       action,
		Common:       h.common,
		EntityID:     HashEntity(entityName),
		Medium:       medium,
		Space:        space,
		SourceScreen: sourceScreen,
		Screen:       screen,
	}
}

// HashEntity returns the hex MD5 of name.
func HashEntity(name string) string {
	sum := md5.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}

// ============================================================================
// DISPATCHERS
// ============================================================================

// LogDispatcher writes events to the structured logger at info level.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	attrs := []any{
		"id", ev.ID,
		"action", ev.Action,
		"entity_id", ev.EntityID,
		"medium", ev.Medium,
		"space", ev.Space,
		"source_screen", ev.SourceScreen,
		"screen_name", ev.Screen,
		"app_name", ev.Common.AppName,
		"install_id", ev.Common.InstallID,
		"version", ev.Common.Version,
	}
	if ev.IsStart != nil {
		attrs = append(attrs, "is_start", *ev.IsStart)
	}
	logging.Info("behaviour event", attrs...)
	return nil
}

// NopDispatcher discards events.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, Event) error { return nil }
