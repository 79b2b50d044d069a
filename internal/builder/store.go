package builder

import (
	"sort"

	"alcyxob/program-builder/internal/domain"
)

// Append as an insert position places the node after its last sibling.
const Append = -1

type workoutNode struct {
	id        string
	ref       domain.WorkoutTemplate
	note      string
	exercises []string
}

type exerciseNode struct {
	id        string
	workoutID string
	ref       domain.ExerciseTemplate
	notes     string
	sets      []string
}

type setNode struct {
	set        domain.Set
	exerciseID string
}

// Store is the ordered collection store for one program tree.
//
// Nodes live in flat maps keyed by id and every parent keeps an ordered id
// list of its children. A node's order is its position in that list plus
// one, so sibling orders are contiguous by construction and are only
// materialised when the tree is snapshotted.
//
// Store is not safe for concurrent use.
type Store struct {
	ids          *Identity
	workoutOrder []string
	workouts     map[string]*workoutNode
	exercises    map[string]*exerciseNode
	sets         map[string]*setNode
}

// NewStore returns an empty tree whose new nodes get ids from ids.
func NewStore(ids *Identity) *Store {
	if ids == nil {
		ids = NewIdentity()
	}
	return &Store{
		ids:       ids,
		workouts:  make(map[string]*workoutNode),
		exercises: make(map[string]*exerciseNode),
		sets:      make(map[string]*setNode),
	}
}

// batch collects the nodes of one insert so nothing is written before the
// whole subtree validated.
type batch struct {
	hydrate   bool
	claimed   map[NodeKind]map[string]struct{}
	workouts  []*workoutNode
	exercises []*exerciseNode
	sets      []*setNode
}

func newBatch(hydrate bool) *batch {
	return &batch{
		hydrate: hydrate,
		claimed: map[NodeKind]map[string]struct{}{
			KindWorkout:  {},
			KindExercise: {},
			KindSet:      {},
		},
	}
}

// Load replaces the whole tree with workouts, sorting every sibling group
// by its incoming order. Ids already present are kept, missing ones are
// generated. On error the current tree is left as it was.
func (s *Store) Load(workouts []domain.AllocatedWorkout) error {
	fresh := NewStore(s.ids)
	b := newBatch(true)
	roots := make([]string, 0, len(workouts))
	for _, w := range sortWorkouts(workouts) {
		node, err := fresh.buildWorkout(w, b)
		if err != nil {
			return err
		}
		roots = append(roots, node.id)
	}
	fresh.commit(b)
	fresh.workoutOrder = roots

	s.workoutOrder = fresh.workoutOrder
	s.workouts = fresh.workouts
	s.exercises = fresh.exercises
	s.sets = fresh.sets
	return nil
}

// Insert adds node (with its whole subtree) under parent at position.
// node must be a domain.AllocatedWorkout under the root, a
// domain.AllocatedExercise under a workout, or a domain.Set under an
// exercise. A negative or too large position appends. It returns the path
// of the inserted node.
func (s *Store) Insert(parent Path, node any, position int) (Path, error) {
	list, err := s.children(parent)
	if err != nil {
		return Path{}, err
	}

	b := newBatch(false)
	var (
		id   string
		path Path
	)
	switch n := node.(type) {
	case domain.AllocatedWorkout:
		if parent.Kind() != KindProgram {
			return Path{}, TypeMismatchError{Node: KindWorkout, Parent: parent.Kind()}
		}
		wn, err := s.buildWorkout(n, b)
		if err != nil {
			return Path{}, err
		}
		id, path = wn.id, WorkoutPath(wn.id)
	case domain.AllocatedExercise:
		if parent.Kind() != KindWorkout {
			return Path{}, TypeMismatchError{Node: KindExercise, Parent: parent.Kind()}
		}
		en, err := s.buildExercise(n, parent.WorkoutID, b)
		if err != nil {
			return Path{}, err
		}
		id, path = en.id, ExercisePath(parent.WorkoutID, en.id)
	case domain.Set:
		if parent.Kind() != KindExercise {
			return Path{}, TypeMismatchError{Node: KindSet, Parent: parent.Kind()}
		}
		sn, err := s.buildSet(n, parent.ExerciseID, b)
		if err != nil {
			return Path{}, err
		}
		id, path = sn.set.ID, SetPath(parent.WorkoutID, parent.ExerciseID, sn.set.ID)
	default:
		return Path{}, TypeMismatchError{Node: -1, Parent: parent.Kind()}
	}

	s.commit(b)
	*list = insertAt(*list, id, position)
	return path, nil
}

// Remove deletes the node at path together with its subtree.
func (s *Store) Remove(path Path) error {
	if path.Kind() == KindProgram || !path.wellFormed() {
		return InvalidPathError{Path: path}
	}
	if !s.resolves(path) {
		return NotFoundError{Kind: path.Kind(), ID: path.Leaf()}
	}
	list, _ := s.children(path.Parent())
	*list = removeID(*list, path.Leaf())

	switch path.Kind() {
	case KindWorkout:
		for _, exID := range s.workouts[path.WorkoutID].exercises {
			s.dropExercise(exID)
		}
		delete(s.workouts, path.WorkoutID)
	case KindExercise:
		s.dropExercise(path.ExerciseID)
	case KindSet:
		delete(s.sets, path.SetID)
	}
	return nil
}

func (s *Store) dropExercise(id string) {
	if ex, ok := s.exercises[id]; ok {
		for _, setID := range ex.sets {
			delete(s.sets, setID)
		}
		delete(s.exercises, id)
	}
}

// Move detaches the node at source and reattaches it under targetParent at
// targetIndex. Within the same parent this is an index shift: the node is
// removed first and then inserted at targetIndex of the shortened list.
// Ids and subtrees are never altered.
func (s *Store) Move(source Path, targetParent Path, targetIndex int) error {
	if source.Kind() == KindProgram || !source.wellFormed() {
		return InvalidPathError{Path: source}
	}
	if !s.resolves(source) {
		return NotFoundError{Kind: source.Kind(), ID: source.Leaf()}
	}
	if targetParent.Kind() != source.Kind()-1 {
		return TypeMismatchError{Node: source.Kind(), Parent: targetParent.Kind()}
	}
	dst, err := s.children(targetParent)
	if err != nil {
		return err
	}
	src, _ := s.children(source.Parent())

	id := source.Leaf()
	*src = removeID(*src, id)
	*dst = insertAt(*dst, id, targetIndex)

	switch source.Kind() {
	case KindExercise:
		s.exercises[id].workoutID = targetParent.WorkoutID
	case KindSet:
		s.sets[id].exerciseID = targetParent.ExerciseID
	}
	return nil
}

// Patch is a shallow field update for one node kind.
type Patch interface {
	kind() NodeKind
}

// WorkoutPatch updates an allocated workout. Nil fields are left alone.
type WorkoutPatch struct {
	Note       *string
	WorkoutRef *domain.WorkoutTemplate
}

// ExercisePatch updates an allocated exercise. Nil fields are left alone.
type ExercisePatch struct {
	Notes       *string
	ExerciseRef *domain.ExerciseTemplate
}

// SetPatch updates a set. ClearBreakTime removes the break entirely.
type SetPatch struct {
	Type           *domain.SetType
	Value          *float64
	BreakTime      *float64
	ClearBreakTime bool
}

func (WorkoutPatch) kind() NodeKind  { return KindWorkout }
func (ExercisePatch) kind() NodeKind { return KindExercise }
func (SetPatch) kind() NodeKind      { return KindSet }

// Update merges patch into the node at path. It never touches id or order.
func (s *Store) Update(path Path, patch Patch) error {
	if path.Kind() == KindProgram || !path.wellFormed() || patch == nil {
		return InvalidPathError{Path: path}
	}
	if patch.kind() != path.Kind() {
		return TypeMismatchError{Node: patch.kind(), Parent: path.Parent().Kind()}
	}
	if !s.resolves(path) {
		return NotFoundError{Kind: path.Kind(), ID: path.Leaf()}
	}

	switch p := patch.(type) {
	case WorkoutPatch:
		w := s.workouts[path.WorkoutID]
		if p.Note != nil {
			w.note = *p.Note
		}
		if p.WorkoutRef != nil {
			w.ref = p.WorkoutRef.Header()
		}
	case ExercisePatch:
		ex := s.exercises[path.ExerciseID]
		if p.Notes != nil {
			ex.notes = *p.Notes
		}
		if p.ExerciseRef != nil {
			ex.ref = *p.ExerciseRef
		}
	case SetPatch:
		if err := validateSetPatch(p); err != nil {
			return err
		}
		set := &s.sets[path.SetID].set
		if p.Type != nil {
			set.Type = *p.Type
		}
		if p.Value != nil {
			set.Value = *p.Value
		}
		if p.ClearBreakTime {
			set.BreakTime = nil
		} else if p.BreakTime != nil {
			bt := *p.BreakTime
			set.BreakTime = &bt
		}
	}
	return nil
}

func validateSetPatch(p SetPatch) error {
	if p.Type != nil && !p.Type.Valid() {
		return InvalidValueError{Field: "type", Value: *p.Type}
	}
	if p.Value != nil && *p.Value < 0 {
		return InvalidValueError{Field: "value", Value: *p.Value}
	}
	if p.BreakTime != nil && *p.BreakTime < 0 {
		return InvalidValueError{Field: "breakTime", Value: *p.BreakTime}
	}
	return nil
}

func validateSet(set domain.Set) error {
	if !set.Type.Valid() {
		return InvalidValueError{Field: "type", Value: set.Type}
	}
	if set.Value < 0 {
		return InvalidValueError{Field: "value", Value: set.Value}
	}
	if set.BreakTime != nil && *set.BreakTime < 0 {
		return InvalidValueError{Field: "breakTime", Value: *set.BreakTime}
	}
	return nil
}

// --- Read side ---

// Snapshot materialises the tree with orders and derived fields filled in.
func (s *Store) Snapshot() []domain.AllocatedWorkout {
	out := make([]domain.AllocatedWorkout, 0, len(s.workoutOrder))
	for i, id := range s.workoutOrder {
		out = append(out, s.snapshotWorkout(id, i+1))
	}
	return out
}

func (s *Store) snapshotWorkout(id string, order int) domain.AllocatedWorkout {
	w := s.workouts[id]
	aw := domain.AllocatedWorkout{
		ID:         w.id,
		Order:      order,
		WorkoutRef: w.ref,
		Note:       w.note,
		Exercises:  make([]domain.AllocatedExercise, 0, len(w.exercises)),
	}
	for i, exID := range w.exercises {
		aw.Exercises = append(aw.Exercises, s.snapshotExercise(exID, i+1))
	}
	return aw
}

func (s *Store) snapshotExercise(id string, order int) domain.AllocatedExercise {
	ex := s.exercises[id]
	ae := domain.AllocatedExercise{
		ID:            ex.id,
		Order:         order,
		ExerciseRef:   ex.ref,
		ExerciseRefID: ex.ref.ID.Hex(),
		Notes:         ex.notes,
		Sets:          make([]domain.Set, 0, len(ex.sets)),
	}
	for i, setID := range ex.sets {
		set := s.sets[setID].set
		set.SetNumber = i + 1
		if set.BreakTime != nil {
			bt := *set.BreakTime
			set.BreakTime = &bt
		}
		ae.Sets = append(ae.Sets, set)
	}
	ae.TotalDuration = TotalDuration(ae.Sets)
	ae.TotalDurationText = FormatDuration(ae.TotalDuration)
	return ae
}

// Workout returns a snapshot of one workout.
func (s *Store) Workout(id string) (domain.AllocatedWorkout, bool) {
	idx := indexOf(s.workoutOrder, id)
	if idx < 0 {
		return domain.AllocatedWorkout{}, false
	}
	return s.snapshotWorkout(id, idx+1), true
}

// Exercise returns a snapshot of one exercise.
func (s *Store) Exercise(id string) (domain.AllocatedExercise, bool) {
	ex, ok := s.exercises[id]
	if !ok {
		return domain.AllocatedExercise{}, false
	}
	idx := indexOf(s.workouts[ex.workoutID].exercises, id)
	return s.snapshotExercise(id, idx+1), true
}

// WorkoutIDs lists workout ids in order.
func (s *Store) WorkoutIDs() []string {
	return append([]string(nil), s.workoutOrder...)
}

// ExerciseIDs lists the exercise ids of a workout in order.
func (s *Store) ExerciseIDs(workoutID string) []string {
	w, ok := s.workouts[workoutID]
	if !ok {
		return nil
	}
	return append([]string(nil), w.exercises...)
}

// SetIDs lists the set ids of an exercise in order.
func (s *Store) SetIDs(exerciseID string) []string {
	ex, ok := s.exercises[exerciseID]
	if !ok {
		return nil
	}
	return append([]string(nil), ex.sets...)
}

func (s *Store) HasWorkout(id string) bool {
	_, ok := s.workouts[id]
	return ok
}

func (s *Store) HasExercise(id string) bool {
	_, ok := s.exercises[id]
	return ok
}

// ExerciseParent returns the workout that holds an exercise.
func (s *Store) ExerciseParent(exerciseID string) (string, bool) {
	ex, ok := s.exercises[exerciseID]
	if !ok {
		return "", false
	}
	return ex.workoutID, true
}

// Locate finds any node by id and returns its full path.
func (s *Store) Locate(id string) (Path, bool) {
	if id == "" {
		return Path{}, false
	}
	if _, ok := s.workouts[id]; ok {
		return WorkoutPath(id), true
	}
	if ex, ok := s.exercises[id]; ok {
		return ExercisePath(ex.workoutID, id), true
	}
	if sn, ok := s.sets[id]; ok {
		ex := s.exercises[sn.exerciseID]
		return SetPath(ex.workoutID, ex.id, id), true
	}
	return Path{}, false
}

// IndexOf returns the position of the node at path among its siblings.
func (s *Store) IndexOf(path Path) int {
	if !s.resolves(path) {
		return -1
	}
	list, _ := s.children(path.Parent())
	return indexOf(*list, path.Leaf())
}

// ChildCount is the number of children under parent, -1 if it does not resolve.
func (s *Store) ChildCount(parent Path) int {
	list, err := s.children(parent)
	if err != nil {
		return -1
	}
	return len(*list)
}

// --- internals ---

// children returns the ordered id list owned by parent.
func (s *Store) children(parent Path) (*[]string, error) {
	if !parent.wellFormed() || parent.Kind() == KindSet {
		return nil, InvalidPathError{Path: parent}
	}
	if !s.resolves(parent) {
		return nil, InvalidPathError{Path: parent}
	}
	switch parent.Kind() {
	case KindWorkout:
		return &s.workouts[parent.WorkoutID].exercises, nil
	case KindExercise:
		return &s.exercises[parent.ExerciseID].sets, nil
	default:
		return &s.workoutOrder, nil
	}
}

// resolves checks that every id on the path exists and sits under the
// previous one.
func (s *Store) resolves(p Path) bool {
	if !p.wellFormed() {
		return false
	}
	if p.WorkoutID != "" {
		if _, ok := s.workouts[p.WorkoutID]; !ok {
			return false
		}
	}
	if p.ExerciseID != "" {
		ex, ok := s.exercises[p.ExerciseID]
		if !ok || ex.workoutID != p.WorkoutID {
			return false
		}
	}
	if p.SetID != "" {
		sn, ok := s.sets[p.SetID]
		if !ok || sn.exerciseID != p.ExerciseID {
			return false
		}
	}
	return true
}

func (s *Store) exists(kind NodeKind, id string) bool {
	switch kind {
	case KindWorkout:
		_, ok := s.workouts[id]
		return ok
	case KindExercise:
		_, ok := s.exercises[id]
		return ok
	case KindSet:
		_, ok := s.sets[id]
		return ok
	}
	return false
}

func (s *Store) claimID(kind NodeKind, id string, b *batch) (string, error) {
	if id == "" {
		id = s.ids.Next()
		b.claimed[kind][id] = struct{}{}
		return id, nil
	}
	if _, dup := b.claimed[kind][id]; dup || s.exists(kind, id) {
		return "", DuplicateIDError{Kind: kind, ID: id}
	}
	// Outside hydration an explicit id must be brand new, otherwise a
	// deleted node's id could come back.
	if !b.hydrate && s.ids.Issued(id) {
		return "", DuplicateIDError{Kind: kind, ID: id}
	}
	b.claimed[kind][id] = struct{}{}
	return id, nil
}

func (s *Store) buildWorkout(w domain.AllocatedWorkout, b *batch) (*workoutNode, error) {
	id, err := s.claimID(KindWorkout, w.ID, b)
	if err != nil {
		return nil, err
	}
	node := &workoutNode{id: id, ref: w.WorkoutRef.Header(), note: w.Note}
	for _, ex := range sortExercises(w.Exercises) {
		en, err := s.buildExercise(ex, id, b)
		if err != nil {
			return nil, err
		}
		node.exercises = append(node.exercises, en.id)
	}
	b.workouts = append(b.workouts, node)
	return node, nil
}

func (s *Store) buildExercise(ex domain.AllocatedExercise, workoutID string, b *batch) (*exerciseNode, error) {
	id, err := s.claimID(KindExercise, ex.ID, b)
	if err != nil {
		return nil, err
	}
	node := &exerciseNode{id: id, workoutID: workoutID, ref: ex.ExerciseRef, notes: ex.Notes}
	for _, set := range ex.Sets {
		sn, err := s.buildSet(set, id, b)
		if err != nil {
			return nil, err
		}
		node.sets = append(node.sets, sn.set.ID)
	}
	b.exercises = append(b.exercises, node)
	return node, nil
}

func (s *Store) buildSet(set domain.Set, exerciseID string, b *batch) (*setNode, error) {
	if err := validateSet(set); err != nil {
		return nil, err
	}
	id, err := s.claimID(KindSet, set.ID, b)
	if err != nil {
		return nil, err
	}
	set.ID = id
	set.SetNumber = 0
	if set.BreakTime != nil {
		bt := *set.BreakTime
		set.BreakTime = &bt
	}
	node := &setNode{set: set, exerciseID: exerciseID}
	b.sets = append(b.sets, node)
	return node, nil
}

func (s *Store) commit(b *batch) {
	for _, w := range b.workouts {
		s.workouts[w.id] = w
	}
	for _, ex := range b.exercises {
		s.exercises[ex.id] = ex
	}
	for _, sn := range b.sets {
		s.sets[sn.set.ID] = sn
	}
	for _, ids := range b.claimed {
		for id := range ids {
			s.ids.Observe(id)
		}
	}
}

func sortWorkouts(in []domain.AllocatedWorkout) []domain.AllocatedWorkout {
	out := append([]domain.AllocatedWorkout(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func sortExercises(in []domain.AllocatedExercise) []domain.AllocatedExercise {
	out := append([]domain.AllocatedExercise(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func removeID(list []string, id string) []string {
	idx := indexOf(list, id)
	if idx < 0 {
		return list
	}
	return append(list[:idx], list[idx+1:]...)
}

func insertAt(list []string, id string, position int) []string {
	if position < 0 || position > len(list) {
		position = len(list)
	}
	list = append(list, "")
	copy(list[position+1:], list[position:])
	list[position] = id
	return list
}
