package core

// ModuleStore is a dense array of modules plus an id→index map, protected by an RwLock. Workers
// hold the read lock while iterating/indexing; the control thread holds the write lock for the
// duration of any insert/remove.
//
// Invariants (enforced by Insert/Remove, which are only ever called under the write lock):
//   - iteration order over the dense slice is stable between writer epochs;
//   - IndexOf always points at a live module;
//   - Remove compacts the slice and keeps IndexOf in sync.
type ModuleStore struct {
	Lock *RwLock

	modules      []Module
	ids          []ModuleID
	indexOf      map[ModuleID]int
	audioOutputs map[ModuleID]struct{}
}

// NewModuleStore returns an empty store.
func NewModuleStore() *ModuleStore {
	return &ModuleStore{
		Lock:         NewRwLock(),
		indexOf:      make(map[ModuleID]int),
		audioOutputs: make(map[ModuleID]struct{}),
	}
}

// Insert appends m under id. Legal only while the write lock is held.
func (s *ModuleStore) Insert(id ModuleID, m Module) {
	s.indexOf[id] = len(s.modules)
	s.modules = append(s.modules, m)
	s.ids = append(s.ids, id)
}

// Remove deletes the module at id, compacting the dense slice and fixing up every index after the
// removed slot. O(N) in the number of modules after the removed one. Legal only while the write
// lock is held.
func (s *ModuleStore) Remove(id ModuleID) {
	idx, ok := s.indexOf[id]
	if !ok {
		return
	}
	s.modules = append(s.modules[:idx], s.modules[idx+1:]...)
	s.ids = append(s.ids[:idx], s.ids[idx+1:]...)
	delete(s.indexOf, id)
	delete(s.audioOutputs, id)
	for i := idx; i < len(s.ids); i++ {
		s.indexOf[s.ids[i]] = i
	}
}

// Len returns the number of modules currently in the store. Legal while either lock is held.
func (s *ModuleStore) Len() int {
	return len(s.modules)
}

// At returns the module at dense index i. Legal only while the read or write lock is held, since
// indices are only stable between writer epochs.
func (s *ModuleStore) At(i int) Module {
	return s.modules[i]
}

// Get looks up a module by id. Legal only while a lock is held.
func (s *ModuleStore) Get(id ModuleID) (Module, bool) {
	idx, ok := s.indexOf[id]
	if !ok {
		return nil, false
	}
	return s.modules[idx], true
}

// IndexOf reports the dense index of id, if present.
func (s *ModuleStore) IndexOf(id ModuleID) (int, bool) {
	idx, ok := s.indexOf[id]
	return idx, ok
}

// MarkAudioOutput registers id as an audio-output module: the scheduler leader will sum its
// first two outputs into the stereo ring every quantum.
func (s *ModuleStore) MarkAudioOutput(id ModuleID) {
	s.audioOutputs[id] = struct{}{}
}

// AudioOutputIDs returns the current set of audio-output module ids. The returned slice is a
// snapshot; callers must hold at least the read lock while using it to look modules back up.
func (s *ModuleStore) AudioOutputIDs() []ModuleID {
	ids := make([]ModuleID, 0, len(s.audioOutputs))
	for id := range s.audioOutputs {
		ids = append(ids, id)
	}
	return ids
}

// SwapBuffers calls SwapOutputBuffers on every module. Must be called exactly once per quantum,
// by the scheduler leader, before any module processes that quantum.
func (s *ModuleStore) SwapBuffers() {
	for _, m := range s.modules {
		m.SwapOutputBuffers()
	}
}
