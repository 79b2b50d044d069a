package builder

import (
	"errors"
	"log"
	"sort"

	"alcyxob/program-builder/internal/domain"
)

// Default leaf values for nodes created by the editor.
const (
	DefaultExerciseReps = 12
	DefaultBreakSeconds = 60
)

// Options configures an Editor.
type Options struct {
	// SelectFirstItem picks the first workout and exercise on load and
	// whenever the selected one disappears.
	SelectFirstItem bool
	Identity        *Identity
	Notifier        Notifier
}

// Editor runs every edit gesture against one program: the store applies it,
// the selection is re-checked and the whole tree is written back through
// the form bridge.
type Editor struct {
	form      FormBridge
	store     *Store
	selection *SelectionController
	reorder   *ReorderEngine
	notifier  Notifier
}

// NewEditor returns an editor over form. Call Load before editing.
func NewEditor(form FormBridge, opts Options) *Editor {
	store := NewStore(opts.Identity)
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Editor{
		form:      form,
		store:     store,
		selection: NewSelectionController(opts.SelectFirstItem),
		reorder:   NewReorderEngine(store),
		notifier:  notifier,
	}
}

// Load (re)hydrates the tree from the form bridge and applies the load
// selection rule.
func (e *Editor) Load() error {
	workouts, _ := e.form.GetValue(FieldWorkouts).([]domain.AllocatedWorkout)
	if err := e.store.Load(workouts); err != nil {
		return e.finish("load", err)
	}
	e.selection.Reset(e.store)
	return e.finish("load", nil)
}

// Program returns the header fields from the form together with the
// current tree.
func (e *Editor) Program() domain.Program {
	program, ok := e.form.GetValue(FieldProgram).(domain.Program)
	if !ok {
		program = domain.NewProgram()
	}
	program.Workouts = e.store.Snapshot()
	return program
}

func (e *Editor) Selection() Selection {
	return e.selection.Current()
}

// Tree exposes read access to the current tree.
func (e *Editor) Tree() Tree {
	return e.store
}

// AddWorkout appends a workout built from tpl. The template's exercises and
// their sets are copied in template order and get fresh ids.
func (e *Editor) AddWorkout(tpl domain.WorkoutTemplate) (domain.AllocatedWorkout, error) {
	items := append([]domain.WorkoutTemplateExercise(nil), tpl.Exercises...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })

	aw := domain.AllocatedWorkout{
		WorkoutRef: tpl.Header(),
		Exercises:  make([]domain.AllocatedExercise, 0, len(items)),
	}
	for _, item := range items {
		aw.Exercises = append(aw.Exercises, domain.AllocatedExercise{
			ExerciseRef: item.Exercise,
			Sets:        copySets(item.Sets),
		})
	}

	path, err := e.store.Insert(Root, aw, Append)
	if err != nil {
		return domain.AllocatedWorkout{}, e.finish("add_workout", err)
	}
	e.selection.WorkoutAdded(e.store, path.WorkoutID)
	e.notify(SeveritySuccess, "Workout added successfully")
	_ = e.finish("add_workout", nil)

	added, _ := e.store.Workout(path.WorkoutID)
	return added, nil
}

// AddExercise appends an exercise built from tpl to a workout. It starts
// with one default set.
func (e *Editor) AddExercise(workoutID string, tpl domain.ExerciseTemplate) (domain.AllocatedExercise, error) {
	if !e.store.HasWorkout(workoutID) {
		return domain.AllocatedExercise{}, e.finish("add_exercise", NotFoundError{Kind: KindWorkout, ID: workoutID})
	}
	ae := domain.AllocatedExercise{
		ExerciseRef: tpl,
		Sets:        []domain.Set{newSet(DefaultExerciseReps)},
	}
	path, err := e.store.Insert(WorkoutPath(workoutID), ae, Append)
	if err != nil {
		return domain.AllocatedExercise{}, e.finish("add_exercise", err)
	}
	e.selection.ExerciseAdded(e.store, workoutID, path.ExerciseID)
	e.notify(SeveritySuccess, "Exercise added successfully")
	_ = e.finish("add_exercise", nil)

	added, _ := e.store.Exercise(path.ExerciseID)
	return added, nil
}

// DeleteWorkout removes a workout with all of its exercises and sets.
func (e *Editor) DeleteWorkout(workoutID string) error {
	if err := e.store.Remove(WorkoutPath(workoutID)); err != nil {
		return e.finish("delete_workout", err)
	}
	e.selection.WorkoutDeleted(e.store, workoutID)
	e.notify(SeverityInfo, "Workout removed from program")
	return e.finish("delete_workout", nil)
}

// DeleteExercise removes an exercise and its sets.
func (e *Editor) DeleteExercise(workoutID, exerciseID string) error {
	if err := e.store.Remove(ExercisePath(workoutID, exerciseID)); err != nil {
		return e.finish("delete_exercise", err)
	}
	e.selection.ExerciseDeleted(e.store, exerciseID)
	e.notify(SeverityInfo, "Exercise removed successfully")
	return e.finish("delete_exercise", nil)
}

// UpdateWorkout patches a workout's note or template reference.
func (e *Editor) UpdateWorkout(workoutID string, patch WorkoutPatch) error {
	return e.finish("update_workout", e.store.Update(WorkoutPath(workoutID), patch))
}

// UpdateExercise patches an exercise's notes or template reference.
func (e *Editor) UpdateExercise(workoutID, exerciseID string, patch ExercisePatch) error {
	return e.finish("update_exercise", e.store.Update(ExercisePath(workoutID, exerciseID), patch))
}

// AddSet appends set to an exercise, or a default set when set is nil.
func (e *Editor) AddSet(workoutID, exerciseID string, set *domain.Set) (domain.Set, error) {
	parent := ExercisePath(workoutID, exerciseID)
	if !e.store.resolves(parent) {
		return domain.Set{}, e.finish("add_set", NotFoundError{Kind: KindExercise, ID: exerciseID})
	}
	node := newSet(0)
	if set != nil {
		node = copySets([]domain.Set{*set})[0]
	}
	path, err := e.store.Insert(parent, node, Append)
	if err != nil {
		return domain.Set{}, e.finish("add_set", err)
	}
	_ = e.finish("add_set", nil)

	ex, _ := e.store.Exercise(exerciseID)
	for _, s := range ex.Sets {
		if s.ID == path.SetID {
			return s, nil
		}
	}
	return domain.Set{}, nil
}

// UpdateSet patches one set. The exercise's duration follows on the next
// snapshot.
func (e *Editor) UpdateSet(workoutID, exerciseID, setID string, patch SetPatch) error {
	return e.finish("update_set", e.store.Update(SetPath(workoutID, exerciseID, setID), patch))
}

func (e *Editor) RemoveSet(workoutID, exerciseID, setID string) error {
	return e.finish("remove_set", e.store.Remove(SetPath(workoutID, exerciseID, setID)))
}

// Drag applies a finished drag gesture. A kind mismatch leaves the tree as
// it was and is returned to the caller.
func (e *Editor) Drag(ev DragEvent) (MovePlan, error) {
	plan, err := e.reorder.Apply(ev)
	if err != nil {
		dragOutcomesTotal.WithLabelValues("rejected").Inc()
		return plan, e.finish("drag", err)
	}
	dragOutcomesTotal.WithLabelValues(string(plan.Kind)).Inc()
	if plan.Kind == MoveNone {
		operationsTotal.WithLabelValues("drag", "noop").Inc()
		return plan, nil
	}
	e.selection.Revalidate(e.store)
	return plan, e.finish("drag", nil)
}

func (e *Editor) SelectWorkout(workoutID string) error {
	return e.finish("select_workout", e.selection.SelectWorkout(e.store, workoutID))
}

func (e *Editor) SelectExercise(exerciseID string) error {
	return e.finish("select_exercise", e.selection.SelectExercise(e.store, exerciseID))
}

// Details holds program header changes. Nil fields are left alone.
type Details struct {
	Name         *string               `json:"name"`
	Description  *string               `json:"description"`
	DurationDays *int                  `json:"durationDays"`
	RotationDays *int                  `json:"rotationDays"`
	Status       *domain.ProgramStatus `json:"status"`
}

// UpdateDetails writes header fields through the form bridge.
func (e *Editor) UpdateDetails(d Details) error {
	if d.Status != nil && !d.Status.Valid() {
		return e.finish("update_details", InvalidValueError{Field: "status", Value: *d.Status})
	}
	if d.Name != nil {
		e.form.SetValue(FieldName, *d.Name)
	}
	if d.Description != nil {
		e.form.SetValue(FieldDescription, *d.Description)
	}
	if d.DurationDays != nil {
		days := *d.DurationDays
		e.form.SetValue(FieldDurationDays, &days)
	}
	if d.RotationDays != nil {
		days := *d.RotationDays
		e.form.SetValue(FieldRotationDays, &days)
	}
	if d.Status != nil {
		e.form.SetValue(FieldStatus, *d.Status)
	}
	return e.finish("update_details", nil)
}

// Payload converts the current program into the save shape.
func (e *Editor) Payload() domain.ProgramPayload {
	return PayloadFor(e.Program())
}

// PayloadFor converts a program into the save shape.
func PayloadFor(p domain.Program) domain.ProgramPayload {
	out := domain.ProgramPayload{
		Name:              p.Name,
		Description:       p.Description,
		DurationDays:      p.DurationDays,
		RotationDays:      p.RotationDays,
		Status:            p.Status,
		AllocatedWorkouts: make([]domain.WorkoutPayload, 0, len(p.Workouts)),
	}
	for _, w := range p.Workouts {
		wp := domain.WorkoutPayload{
			WorkoutID:          refID(w.WorkoutRef.ID.IsZero(), w.WorkoutRef.ID.Hex()),
			Name:               w.WorkoutRef.Name,
			Note:               w.Note,
			Order:              w.Order,
			AllocatedExercises: make([]domain.ExercisePayload, 0, len(w.Exercises)),
		}
		if wp.Name == "" {
			wp.Name = "Untitled Workout"
		}
		for _, ex := range w.Exercises {
			ep := domain.ExercisePayload{
				ExerciseID: refID(ex.ExerciseRef.ID.IsZero(), ex.ExerciseRefID),
				Order:      ex.Order,
				Notes:      ex.Notes,
				Sets:       make([]domain.SetPayload, 0, len(ex.Sets)),
			}
			for _, s := range ex.Sets {
				ep.Sets = append(ep.Sets, domain.SetPayload{Type: s.Type, Value: s.Value, BreakTime: s.BreakTime})
			}
			wp.AllocatedExercises = append(wp.AllocatedExercises, ep)
		}
		out.AllocatedWorkouts = append(out.AllocatedWorkouts, wp)
	}
	return out
}

func refID(zero bool, hex string) string {
	if zero {
		return ""
	}
	return hex
}

// finish records the outcome of op and, on success, writes the tree back.
func (e *Editor) finish(op string, err error) error {
	operationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
	switch {
	case err == nil:
		e.form.SetValue(FieldWorkouts, e.store.Snapshot())
	case errors.Is(err, ErrInvalidPath):
		log.Printf("ERROR: builder %s: %v", op, err)
	default:
		log.Printf("WARN: builder %s: %v", op, err)
	}
	return err
}

func (e *Editor) notify(sev Severity, msg string) {
	safeNotify(e.notifier, Notification{Severity: sev, Message: msg})
}

func newSet(value float64) domain.Set {
	bt := float64(DefaultBreakSeconds)
	return domain.Set{Type: domain.SetTypeReps, Value: value, BreakTime: &bt}
}

// copySets clones sets without ids so the store issues fresh ones.
func copySets(in []domain.Set) []domain.Set {
	out := make([]domain.Set, 0, len(in))
	for _, s := range in {
		c := domain.Set{Type: s.Type, Value: s.Value}
		if c.Type == "" {
			c.Type = domain.SetTypeReps
		}
		if s.BreakTime != nil {
			bt := *s.BreakTime
			c.BreakTime = &bt
		}
		out = append(out, c)
	}
	return out
}
