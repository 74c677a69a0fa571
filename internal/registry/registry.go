// SPDX-License-Identifier: Apache-2.0
// Copyright 2025 The SelfOS Authors

// Package registry maps logical object-type names (goal, task, project, ...)
// to their storage definitions, so the sync subsystem is written once and
// works for every registered type.
//
// A *Registry is constructed once at process start and passed by reference
// into the services that need it; there is no package-level mutable state.
package registry

import (
	"errors"
	"fmt"
)

// ErrUnknownObjectType is returned by [Registry.Resolve] when a client
// references a type name that is not registered. Only explicitly enumerated
// types are syncable; any other name is rejected before any database access.
var ErrUnknownObjectType = errors.New("unknown object type")

// IDKind tells how the primary key of a syncable type is produced.
type IDKind int

const (
	// IDServerGenerated means the table uses an auto-increment integer key.
	// A client-submitted object id is ignored on create; the server assigns
	// the identifier and reports it back.
	IDServerGenerated IDKind = iota

	// IDClientProvided means the client chooses the key (a string UUID).
	// The submitted object id is used as the primary key on create.
	IDClientProvided
)

// String returns a readable label for the id kind, used in logs.
func (k IDKind) String() string {
	switch k {
	case IDServerGenerated:
		return "server-generated"
	case IDClientProvided:
		return "client-provided"
	default:
		return fmt.Sprintf("IDKind(%d)", int(k))
	}
}

// Definition describes one syncable type's storage layout. All behavior that
// used to require per-type branching (id parsing, soft-delete support,
// incremental diffing) is captured here as data.
type Definition struct {
	// Name is the logical type name clients use in sync operations.
	Name string

	// Table is the SQL table the type's records live in.
	Table string

	// IDKind tells whether the primary key is server-assigned or
	// client-chosen. See [IDServerGenerated] and [IDClientProvided].
	IDKind IDKind

	// SoftDelete marks types whose delete sets deleted_at instead of
	// removing the row. Soft-deleted rows stay queryable by id and are
	// reported as delete operations in the delta feed.
	SoftDelete bool

	// HasUpdatedAt marks types that can participate in incremental
	// delta sync. Types without an updated_at column are silently skipped
	// by the delta feed because they cannot be diffed.
	HasUpdatedAt bool

	// Columns is the ordered list of client-mutable domain columns.
	// Identity and bookkeeping columns (id, user_id, version, created_at,
	// updated_at, deleted_at) are managed by the store and are never part
	// of this list.
	Columns []string
}

// Registry is an immutable name → [Definition] index. It is safe for
// concurrent use after construction.
type Registry struct {
	defs  map[string]Definition
	order []string
}

// New builds a Registry from the given definitions. Registration order is
// preserved and drives the scan order of the delta feed and status report.
func New(defs ...Definition) *Registry {
	r := &Registry{
		defs:  make(map[string]Definition, len(defs)),
		order: make([]string, 0, len(defs)),
	}

	for _, def := range defs {
		if _, exists := r.defs[def.Name]; exists {
			continue
		}
		r.defs[def.Name] = def
		r.order = append(r.order, def.Name)
	}

	return r
}

// Resolve returns the definition registered under name, or
// [ErrUnknownObjectType] wrapped with the offending name.
func (r *Registry) Resolve(name string) (Definition, error) {
	def, found := r.defs[name]
	if !found {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownObjectType, name)
	}

	return def, nil
}

// Names returns all registered type names in registration order.
// The returned slice is a copy; callers may modify it freely.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Default returns the registry of all SelfOS syncable types.
func Default() *Registry {
	return New(
		Definition{
			Name:         "goal",
			Table:        "goals",
			IDKind:       IDServerGenerated,
			SoftDelete:   true,
			HasUpdatedAt: true,
			Columns:      []string{"title", "description", "life_area_id", "status", "progress", "target_date"},
		},
		Definition{
			Name:         "task",
			Table:        "tasks",
			IDKind:       IDServerGenerated,
			SoftDelete:   true,
			HasUpdatedAt: true,
			Columns:      []string{"title", "description", "goal_id", "project_id", "due_date", "completed"},
		},
		Definition{
			Name:         "project",
			Table:        "projects",
			IDKind:       IDServerGenerated,
			SoftDelete:   true,
			HasUpdatedAt: true,
			Columns:      []string{"title", "description", "status", "progress"},
		},
		Definition{
			Name:         "life_area",
			Table:        "life_areas",
			IDKind:       IDServerGenerated,
			SoftDelete:   true,
			HasUpdatedAt: true,
			Columns:      []string{"name", "weight", "icon", "description"},
		},
		Definition{
			Name:         "onboarding_state",
			Table:        "onboarding_states",
			IDKind:       IDServerGenerated,
			SoftDelete:   false,
			HasUpdatedAt: true,
			Columns:      []string{"current_step", "completed", "theme_preference", "answers"},
		},
		Definition{
			Name:         "personal_profile",
			Table:        "personal_profiles",
			IDKind:       IDServerGenerated,
			SoftDelete:   false,
			HasUpdatedAt: true,
			Columns:      []string{"display_name", "bio", "timezone", "preferences"},
		},
		Definition{
			Name:         "media_attachment",
			Table:        "media_attachments",
			IDKind:       IDClientProvided,
			SoftDelete:   true,
			HasUpdatedAt: true,
			Columns:      []string{"filename", "mime_type", "size_bytes", "task_id", "goal_id", "storage_path"},
		},
	)
}
