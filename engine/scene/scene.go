package scene

import "github.com/spaghettifunk/solaris/engine/core"

// Scene is an insertion-ordered set of uniquely named entities. Insertion
// order is draw order.
type Scene struct {
	entities []*Entity
	byName   map[string]*Entity
}

func NewScene() *Scene {
	return &Scene{byName: make(map[string]*Entity)}
}

func (s *Scene) Add(e *Entity) error {
	if e == nil {
		return core.NewConfigurationError("scene", "nil entity")
	}
	if _, ok := s.byName[e.Name]; ok {
		return core.NewConfigurationError("scene", "entity '%s' already exists", e.Name)
	}
	s.entities = append(s.entities, e)
	s.byName[e.Name] = e
	return nil
}

// Remove detaches the named entity and returns it.
func (s *Scene) Remove(name string) (*Entity, error) {
	e, ok := s.byName[name]
	if !ok {
		return nil, core.NewNotFoundError("entity", name)
	}
	delete(s.byName, name)
	for i, other := range s.entities {
		if other == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
	return e, nil
}

func (s *Scene) Get(name string) (*Entity, error) {
	e, ok := s.byName[name]
	if !ok {
		return nil, core.NewNotFoundError("entity", name)
	}
	return e, nil
}

// Entities returns the entities in draw order. The slice is a copy.
func (s *Scene) Entities() []*Entity {
	return append([]*Entity(nil), s.entities...)
}

// Names returns entity names in draw order.
func (s *Scene) Names() []string {
	names := make([]string, len(s.entities))
	for i, e := range s.entities {
		names[i] = e.Name
	}
	return names
}

func (s *Scene) Len() int {
	return len(s.entities)
}
