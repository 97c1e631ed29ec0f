package academic

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/grading"
)

// SyncState is the coordinator's position in the fetch/mutate lifecycle of an
// aggregate root.
type SyncState int

const (
	StateIdle SyncState = iota
	StateFetching
	StateOptimisticPending
	StateReconciled
	StateErrored
)

func (s SyncState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateOptimisticPending:
		return "optimistic-pending"
	case StateReconciled:
		return "reconciled"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// Aggregate roots observers can subscribe to.
const (
	EventSemesters   = "semesters"
	EventProfile     = "profile"
	EventPreferences = "preferences"
)

// Event notifies observers that an aggregate root changed.
type Event struct {
	Root string
}

// pendingTxn captures everything needed to commit or roll back one optimistic
// mutation: the pre-mutation snapshot and the mutation's local sequence number.
type pendingTxn struct {
	prevSemesters []Semester
	prevSeq       map[uuid.UUID]uint64
	seq           uint64
}

// Coordinator owns one student's reconciled view of the semester/course graph
// plus profile and preferences. It decides online vs. offline data sources,
// applies mutations optimistically before their remote writes resolve, and
// reconciles or rolls back against backend responses. It is the single writer
// of the cached snapshot; readers always receive deep copies.
type Coordinator struct {
	studentID uuid.UUID
	repo      Repository
	cache     Cache
	probe     Prober
	logger    core.Logger
	conf      core.SyncConfig

	mu           sync.Mutex
	state        SyncState
	profileState SyncState
	stale        bool
	semesters    []Semester
	profile      *Profile
	prefs        *Preferences
	lastSync     time.Time
	seq          map[uuid.UUID]uint64
	nextSeq      uint64
	cancelFetch  context.CancelFunc
	subs         []func(Event)
}

func NewCoordinator(
	studentID uuid.UUID,
	repo Repository,
	cache Cache,
	probe Prober,
	logger core.Logger,
	conf core.SyncConfig,
) *Coordinator {
	return &Coordinator{
		studentID:    studentID,
		repo:         repo,
		cache:        cache,
		probe:        probe,
		logger:       logger,
		conf:         conf,
		state:        StateIdle,
		profileState: StateIdle,
		seq:          make(map[uuid.UUID]uint64),
	}
}

// Subscribe registers an observer notified after every reconciled change.
func (c *Coordinator) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Readers

func (c *Coordinator) State() SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stale reports whether the current view was served from the local cache
// rather than a fresh fetch.
func (c *Coordinator) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

func (c *Coordinator) LastSync() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSync
}

// Semesters returns a deep copy of the reconciled semester list, courses
// attached, ordered by semester number.
func (c *Coordinator) Semesters() []Semester {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSemesters(c.semesters)
}

func (c *Coordinator) Semester(id uuid.UUID) (Semester, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.findSemesterLocked(id); i >= 0 {
		return c.semesters[i].Clone(), nil
	}
	return Semester{}, ErrSemesterNotFound
}

func (c *Coordinator) Course(id uuid.UUID) (Course, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if si, ci := c.findCourseLocked(id); si >= 0 {
		return c.semesters[si].Courses[ci].Clone(), nil
	}
	return Course{}, ErrCourseNotFound
}

// CGPA is computed on demand from the semester aggregates; it is cheap and
// never memoized.
func (c *Coordinator) CGPA() *float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return grading.CGPA(c.semesterWeightsLocked())
}

func (c *Coordinator) Profile() *Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return nil
	}
	prof := *c.profile
	return &prof
}

func (c *Coordinator) Preferences() *Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prefs == nil {
		return nil
	}
	prefs := *c.prefs
	return &prefs
}

// Fetch

// Fetch refreshes the semester list. Offline (or failing) backends fall back
// to the last cached snapshot; only when no snapshot exists does the caller
// see ErrNoData. A mutation arriving mid-fetch supersedes the fetch so a
// stale read can never overwrite a newer optimistic state.
func (c *Coordinator) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.cancelFetchLocked()
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancelFetch = cancel
	c.state = StateFetching
	c.mu.Unlock()
	defer cancel()

	if !c.online(fetchCtx) {
		return c.serveCached("backend unreachable")
	}

	var semesters []Semester
	var courses []Course
	err := c.withRetry(fetchCtx, c.conf.ReadAttempts, func(ctx context.Context) error {
		var err error
		if semesters, err = c.repo.QuerySemesters(ctx, c.studentID); err != nil {
			return err
		}
		courses, err = c.repo.QueryCourses(ctx, c.studentID)
		return err
	})
	if err != nil {
		if fetchCtx.Err() != nil { // superseded or cancelled; current view stands
			return fetchCtx.Err()
		}
		c.logger.Warn(fmt.Sprintf("sync: fetch failed, trying cache: %v", err))
		return c.serveCached("fetch failed")
	}

	attachCourses(semesters, courses)
	now := time.Now().UTC()

	c.mu.Lock()
	if fetchCtx.Err() != nil { // a mutation won the race; discard the fetch
		c.mu.Unlock()
		return fetchCtx.Err()
	}
	c.semesters = semesters
	c.stale = false
	c.lastSync = now
	c.state = StateReconciled
	c.mu.Unlock()

	c.cacheSemesters()
	c.notify(EventSemesters)
	return nil
}

// Semester mutations

func (c *Coordinator) AddSemester(ctx context.Context, form SemesterForm) (Semester, error) {
	now := time.Now().UTC()
	sem := Semester{
		ID:             uuid.New(),
		StudentID:      c.studentID,
		SemesterNumber: form.SemesterNumber,
		Name:           form.Name,
		StartDate:      form.StartDate,
		EndDate:        form.EndDate,
		CreatedAt:      now,
		UpdatedAt:      now,
		Courses:        []Course{},
	}

	c.mu.Lock()
	txn := c.beginLocked()
	c.semesters = append(c.semesters, sem)
	c.sortSemestersLocked()
	c.seq[sem.ID] = txn.seq
	c.state = StateOptimisticPending
	c.mu.Unlock()

	var created Semester
	err := c.withRetry(ctx, c.conf.WriteAttempts, func(ctx context.Context) error {
		var err error
		created, err = c.repo.CreateSemester(ctx, sem)
		return err
	})
	if err != nil {
		c.rollback(txn)
		return Semester{}, &RemoteError{Op: "create semester", Err: err}
	}

	c.reconcileSemester(sem.ID, created, txn)
	c.cacheSemesters()
	c.notify(EventSemesters)
	return created, nil
}

func (c *Coordinator) UpdateSemester(ctx context.Context, id uuid.UUID, form SemesterForm) (Semester, error) {
	c.mu.Lock()
	si := c.findSemesterLocked(id)
	if si < 0 {
		c.mu.Unlock()
		return Semester{}, ErrSemesterNotFound
	}
	txn := c.beginLocked()
	sem := &c.semesters[si]
	sem.SemesterNumber = form.SemesterNumber
	sem.Name = form.Name
	sem.StartDate = form.StartDate
	sem.EndDate = form.EndDate
	sem.UpdatedAt = time.Now().UTC()
	c.sortSemestersLocked()
	c.seq[id] = txn.seq
	c.state = StateOptimisticPending
	outbound := func() Semester { // re-find: sorting may have moved it
		i := c.findSemesterLocked(id)
		return c.semesters[i].Clone()
	}()
	c.mu.Unlock()

	var updated Semester
	err := c.withRetry(ctx, c.conf.WriteAttempts, func(ctx context.Context) error {
		var err error
		updated, err = c.repo.UpdateSemester(ctx, outbound)
		return err
	})
	if err != nil {
		c.rollback(txn)
		return Semester{}, &RemoteError{Op: "update semester", Err: err}
	}

	c.reconcileSemester(id, updated, txn)
	c.cacheSemesters()
	c.notify(EventSemesters)
	return updated, nil
}

func (c *Coordinator) DeleteSemester(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	si := c.findSemesterLocked(id)
	if si < 0 {
		c.mu.Unlock()
		return ErrSemesterNotFound
	}
	txn := c.beginLocked()
	c.semesters = append(c.semesters[:si], c.semesters[si+1:]...)
	c.seq[id] = txn.seq
	c.state = StateOptimisticPending
	c.mu.Unlock()

	err := c.withRetry(ctx, c.conf.WriteAttempts, func(ctx context.Context) error {
		return c.repo.DeleteSemester(ctx, id)
	})
	if err != nil {
		c.rollback(txn)
		return &RemoteError{Op: "delete semester", Err: err}
	}

	c.mu.Lock()
	if c.seq[id] == txn.seq {
		delete(c.seq, id)
		c.state = StateReconciled
	}
	c.mu.Unlock()

	c.cacheSemesters()
	c.notify(EventSemesters)
	return nil
}

// Course mutations

func (c *Coordinator) AddCourse(ctx context.Context, semesterID uuid.UUID, form CourseForm) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		ID:          uuid.New(),
		SemesterID:  semesterID,
		StudentID:   c.studentID,
		Name:        form.Name,
		CreditHours: form.CreditHours,
		IAScore:     form.IAScore,
		IAMax:       form.IAMax,
		UEScore:     form.UEScore,
		UEMax:       form.UEMax,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	crs.Recompute()

	c.mu.Lock()
	si := c.findSemesterLocked(semesterID)
	if si < 0 {
		c.mu.Unlock()
		return Course{}, ErrSemesterNotFound
	}
	txn := c.beginLocked()
	c.semesters[si].Courses = append(c.semesters[si].Courses, crs)
	c.semesters[si].RecomputeAggregates()
	c.seq[crs.ID] = txn.seq
	c.state = StateOptimisticPending
	c.mu.Unlock()

	var created Course
	err := c.withRetry(ctx, c.conf.WriteAttempts, func(ctx context.Context) error {
		var err error
		created, err = c.repo.CreateCourse(ctx, crs)
		return err
	})
	if err != nil {
		c.rollback(txn)
		return Course{}, &RemoteError{Op: "create course", Err: err}
	}

	c.reconcileCourse(crs.ID, created, txn)
	c.pushAggregates(ctx, created.SemesterID)
	c.cacheSemesters()
	c.notify(EventSemesters)
	return created, nil
}

func (c *Coordinator) UpdateCourse(ctx context.Context, id uuid.UUID, form CourseForm) (Course, error) {
	c.mu.Lock()
	si, ci := c.findCourseLocked(id)
	if si < 0 {
		c.mu.Unlock()
		return Course{}, ErrCourseNotFound
	}
	txn := c.beginLocked()
	crs := &c.semesters[si].Courses[ci]
	crs.Name = form.Name
	crs.CreditHours = form.CreditHours
	crs.IAScore = form.IAScore
	crs.IAMax = form.IAMax
	crs.UEScore = form.UEScore
	crs.UEMax = form.UEMax
	crs.UpdatedAt = time.Now().UTC()
	crs.Recompute()
	c.semesters[si].RecomputeAggregates()
	c.seq[id] = txn.seq
	c.state = StateOptimisticPending
	outbound := crs.Clone()
	c.mu.Unlock()

	var updated Course
	err := c.withRetry(ctx, c.conf.WriteAttempts, func(ctx context.Context) error {
		var err error
		updated, err = c.repo.UpdateCourse(ctx, outbound)
		return err
	})
	if err != nil {
		c.rollback(txn)
		return Course{}, &RemoteError{Op: "update course", Err: err}
	}

	c.reconcileCourse(id, updated, txn)
	c.pushAggregates(ctx, updated.SemesterID)
	c.cacheSemesters()
	c.notify(EventSemesters)
	return updated, nil
}

func (c *Coordinator) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	si, ci := c.findCourseLocked(id)
	if si < 0 {
		c.mu.Unlock()
		return ErrCourseNotFound
	}
	txn := c.beginLocked()
	semesterID := c.semesters[si].ID
	c.semesters[si].Courses = append(c.semesters[si].Courses[:ci], c.semesters[si].Courses[ci+1:]...)
	c.semesters[si].RecomputeAggregates()
	c.seq[id] = txn.seq
	c.state = StateOptimisticPending
	c.mu.Unlock()

	err := c.withRetry(ctx, c.conf.WriteAttempts, func(ctx context.Context) error {
		return c.repo.DeleteCourse(ctx, id)
	})
	if err != nil {
		c.rollback(txn)
		return &RemoteError{Op: "delete course", Err: err}
	}

	c.mu.Lock()
	if c.seq[id] == txn.seq {
		delete(c.seq, id)
		c.state = StateReconciled
	}
	c.mu.Unlock()

	c.pushAggregates(ctx, semesterID)
	c.cacheSemesters()
	c.notify(EventSemesters)
	return nil
}

// Profile & preferences

func (c *Coordinator) FetchProfile(ctx context.Context) (Profile, error) {
	c.mu.Lock()
	c.profileState = StateFetching
	c.mu.Unlock()

	if !c.online(ctx) {
		return c.serveCachedProfile()
	}

	var prof Profile
	err := c.withRetry(ctx, c.conf.ReadAttempts, func(ctx context.Context) error {
		var err error
		prof, err = c.repo.GetProfile(ctx, c.studentID)
		return err
	})
	if err != nil {
		if err == ErrProfileNotFound {
			c.setProfileState(StateReconciled)
			return Profile{}, err
		}
		c.logger.Warn(fmt.Sprintf("sync: profile fetch failed, trying cache: %v", err))
		return c.serveCachedProfile()
	}

	c.mu.Lock()
	c.profile = &prof
	c.profileState = StateReconciled
	c.mu.Unlock()

	c.cacheSet(c.cacheKey("profile"), prof)
	c.notify(EventProfile)
	return prof, nil
}

func (c *Coordinator) SaveProfile(ctx context.Context, form ProfileForm) (Profile, error) {
	now := time.Now().UTC()
	prof := Profile{
		ID:         c.studentID,
		FullName:   form.FullName,
		University: form.University,
		Program:    form.Program,
		Country:    form.Country,
		StudentRef: form.StudentRef,
		StartYear:  form.StartYear,
		AvatarURL:  form.AvatarURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	c.mu.Lock()
	prev := c.profile
	if prev != nil {
		prof.CreatedAt = prev.CreatedAt
		if form.AvatarURL == "" {
			prof.AvatarURL = prev.AvatarURL
		}
	}
	c.profile = &prof
	c.profileState = StateOptimisticPending
	c.mu.Unlock()

	var saved Profile
	err := c.withRetry(ctx, c.conf.WriteAttempts, func(ctx context.Context) error {
		var err error
		saved, err = c.repo.UpsertProfile(ctx, prof)
		return err
	})
	if err != nil {
		c.mu.Lock()
		c.profile = prev
		c.profileState = StateErrored
		c.mu.Unlock()
		return Profile{}, &RemoteError{Op: "save profile", Err: err}
	}

	c.mu.Lock()
	c.profile = &saved
	c.profileState = StateReconciled
	c.mu.Unlock()

	c.cacheSet(c.cacheKey("profile"), saved)
	c.notify(EventProfile)
	return saved, nil
}

func (c *Coordinator) FetchPreferences(ctx context.Context) (Preferences, error) {
	var prefs Preferences
	err := c.withRetry(ctx, c.conf.ReadAttempts, func(ctx context.Context) error {
		var err error
		prefs, err = c.repo.GetPreferences(ctx, c.studentID)
		return err
	})
	if err == ErrPreferencesNotFound {
		prefs = defaultPreferences(c.studentID)
		err = nil
	}
	if err != nil {
		return Preferences{}, &RemoteError{Op: "fetch preferences", Err: err}
	}

	c.mu.Lock()
	c.prefs = &prefs
	c.mu.Unlock()
	return prefs, nil
}

func (c *Coordinator) SavePreferences(ctx context.Context, form PreferencesForm) (Preferences, error) {
	now := time.Now().UTC()
	prefs := Preferences{
		StudentID:            c.studentID,
		DefaultIAMax:         form.DefaultIAMax,
		DefaultUEMax:         form.DefaultUEMax,
		NotificationsEnabled: form.NotificationsEnabled,
		HapticEnabled:        form.HapticEnabled,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	c.mu.Lock()
	prev := c.prefs
	if prev != nil {
		prefs.CreatedAt = prev.CreatedAt
	}
	c.prefs = &prefs
	c.mu.Unlock()

	var saved Preferences
	err := c.withRetry(ctx, c.conf.WriteAttempts, func(ctx context.Context) error {
		var err error
		saved, err = c.repo.UpsertPreferences(ctx, prefs)
		return err
	})
	if err != nil {
		c.mu.Lock()
		c.prefs = prev
		c.mu.Unlock()
		return Preferences{}, &RemoteError{Op: "save preferences", Err: err}
	}

	c.mu.Lock()
	c.prefs = &saved
	c.mu.Unlock()

	c.notify(EventPreferences)
	return saved, nil
}

func defaultPreferences(studentID uuid.UUID) Preferences {
	now := time.Now().UTC()
	return Preferences{
		StudentID:            studentID,
		DefaultIAMax:         grading.DefaultIAMax,
		DefaultUEMax:         grading.DefaultUEMax,
		NotificationsEnabled: true,
		HapticEnabled:        true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// Internals

func (c *Coordinator) online(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.conf.ProbeTimeout)
	defer cancel()
	return c.probe.IsOnline(probeCtx)
}

// withRetry runs op up to attempts times with exponential backoff between
// tries. Cancellation wins over retries.
func (c *Coordinator) withRetry(ctx context.Context, attempts int, op func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil || attempt == attempts {
			break
		}
		select {
		case <-time.After(c.backoff(attempt)):
		case <-ctx.Done():
			return err
		}
	}
	return err
}

func (c *Coordinator) backoff(attempt int) time.Duration {
	d := c.conf.BackoffBase << uint(attempt-1)
	if d > c.conf.BackoffCap {
		d = c.conf.BackoffCap
	}
	return d
}

// beginLocked opens a pending transaction: snapshots the current view and
// allocates the mutation's sequence number. Any in-flight fetch is superseded.
func (c *Coordinator) beginLocked() pendingTxn {
	c.cancelFetchLocked()
	c.nextSeq++
	prevSeq := make(map[uuid.UUID]uint64, len(c.seq))
	for k, v := range c.seq {
		prevSeq[k] = v
	}
	return pendingTxn{
		prevSemesters: cloneSemesters(c.semesters),
		prevSeq:       prevSeq,
		seq:           c.nextSeq,
	}
}

func (c *Coordinator) cancelFetchLocked() {
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
}

// rollback restores the pre-mutation snapshot exactly; the view is never left
// inconsistent with the last confirmed server state.
func (c *Coordinator) rollback(txn pendingTxn) {
	c.mu.Lock()
	c.semesters = txn.prevSemesters
	c.seq = txn.prevSeq
	c.state = StateErrored
	c.mu.Unlock()
}

// reconcileSemester replaces the optimistic semester with the server-returned
// entity, unless a newer local mutation already superseded this transaction.
func (c *Coordinator) reconcileSemester(localID uuid.UUID, confirmed Semester, txn pendingTxn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[localID] != txn.seq { // stale confirmation; a newer mutation won
		return
	}
	si := c.findSemesterLocked(localID)
	if si < 0 {
		return
	}
	confirmed.Courses = c.semesters[si].Courses // repo rows carry no courses
	c.semesters[si] = confirmed
	if confirmed.ID != localID {
		delete(c.seq, localID)
		c.seq[confirmed.ID] = txn.seq
	}
	c.sortSemestersLocked()
	c.state = StateReconciled
}

func (c *Coordinator) reconcileCourse(localID uuid.UUID, confirmed Course, txn pendingTxn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq[localID] != txn.seq { // stale confirmation; a newer mutation won
		return
	}
	si, ci := c.findCourseLocked(localID)
	if si < 0 {
		return
	}
	c.semesters[si].Courses[ci] = confirmed
	if confirmed.ID != localID {
		delete(c.seq, localID)
		c.seq[confirmed.ID] = txn.seq
	}
	c.semesters[si].RecomputeAggregates()
	c.state = StateReconciled
}

// pushAggregates persists a semester's recomputed GPA/credits to the backend
// as a separate write. Failure leaves the next fetch to repair the stored
// aggregates; the already-confirmed mutation is not rolled back.
func (c *Coordinator) pushAggregates(ctx context.Context, semesterID uuid.UUID) {
	c.mu.Lock()
	si := c.findSemesterLocked(semesterID)
	if si < 0 {
		c.mu.Unlock()
		return
	}
	gpa := copyFloat(c.semesters[si].GPA)
	credits := c.semesters[si].TotalCredits
	c.mu.Unlock()

	err := c.withRetry(ctx, c.conf.WriteAttempts, func(ctx context.Context) error {
		return c.repo.UpdateSemesterAggregates(ctx, semesterID, gpa, credits)
	})
	if err != nil {
		c.logger.Warn(fmt.Sprintf("sync: pushing aggregates for semester %s: %v", semesterID, err))
	}
}

func (c *Coordinator) serveCached(reason string) error {
	data, err := c.cache.Get(c.cacheKey("semesters"))
	if err != nil {
		if err != ErrCacheMiss {
			c.logger.Warn((&CacheError{Op: "read semesters snapshot", Err: err}).Error())
		}
		c.mu.Lock()
		c.state = StateErrored
		c.mu.Unlock()
		return ErrNoData
	}
	var snap snapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn((&CacheError{Op: "decode semesters snapshot", Err: err}).Error())
		c.mu.Lock()
		c.state = StateErrored
		c.mu.Unlock()
		return ErrNoData
	}

	c.mu.Lock()
	c.semesters = snap.Semesters
	c.stale = true
	c.lastSync = snap.SyncedAt
	c.state = StateReconciled
	c.mu.Unlock()

	c.logger.Info(fmt.Sprintf("sync: serving cached snapshot (%s)", reason))
	c.notify(EventSemesters)
	return nil
}

func (c *Coordinator) serveCachedProfile() (Profile, error) {
	data, err := c.cache.Get(c.cacheKey("profile"))
	if err != nil {
		if err != ErrCacheMiss {
			c.logger.Warn((&CacheError{Op: "read profile snapshot", Err: err}).Error())
		}
		c.setProfileState(StateErrored)
		return Profile{}, ErrNoData
	}
	var prof Profile
	if err = json.Unmarshal(data, &prof); err != nil {
		c.logger.Warn((&CacheError{Op: "decode profile snapshot", Err: err}).Error())
		c.setProfileState(StateErrored)
		return Profile{}, ErrNoData
	}

	c.mu.Lock()
	c.profile = &prof
	c.profileState = StateReconciled
	c.mu.Unlock()
	return prof, nil
}

func (c *Coordinator) setProfileState(s SyncState) {
	c.mu.Lock()
	c.profileState = s
	c.mu.Unlock()
}

// snapshot is the wholesale cache unit: the full semester+course graph plus
// the last-sync timestamp. It is only ever replaced, never partially mutated.
type snapshot struct {
	Semesters []Semester `json:"semesters"`
	SyncedAt  time.Time  `json:"synced_at"`
}

func (c *Coordinator) cacheSemesters() {
	c.mu.Lock()
	snap := snapshot{Semesters: cloneSemesters(c.semesters), SyncedAt: time.Now().UTC()}
	c.lastSync = snap.SyncedAt
	c.mu.Unlock()
	c.cacheSet(c.cacheKey("semesters"), snap)
}

// cacheSet persists best-effort: a failing local store degrades to cache-miss
// behavior and must not block the in-memory operation.
func (c *Coordinator) cacheSet(key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn((&CacheError{Op: "encode " + key, Err: err}).Error())
		return
	}
	if err = c.cache.Set(key, data); err != nil {
		c.logger.Warn((&CacheError{Op: "write " + key, Err: err}).Error())
	}
}

func (c *Coordinator) cacheKey(kind string) string {
	return kind + "/" + c.studentID.String()
}

func (c *Coordinator) notify(root string) {
	c.mu.Lock()
	subs := make([]func(Event), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(Event{Root: root})
	}
}

func (c *Coordinator) findSemesterLocked(id uuid.UUID) int {
	for i := range c.semesters {
		if c.semesters[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Coordinator) findCourseLocked(id uuid.UUID) (int, int) {
	for si := range c.semesters {
		for ci := range c.semesters[si].Courses {
			if c.semesters[si].Courses[ci].ID == id {
				return si, ci
			}
		}
	}
	return -1, -1
}

func (c *Coordinator) sortSemestersLocked() {
	sort.SliceStable(c.semesters, func(i, j int) bool {
		return c.semesters[i].SemesterNumber < c.semesters[j].SemesterNumber
	})
}

func (c *Coordinator) semesterWeightsLocked() []grading.SemesterWeight {
	weights := make([]grading.SemesterWeight, 0, len(c.semesters))
	for i := range c.semesters {
		weights = append(weights, grading.SemesterWeight{
			GPA:          c.semesters[i].GPA,
			TotalCredits: c.semesters[i].TotalCredits,
		})
	}
	return weights
}

func attachCourses(semesters []Semester, courses []Course) {
	bySemester := make(map[uuid.UUID][]Course, len(semesters))
	for _, crs := range courses {
		bySemester[crs.SemesterID] = append(bySemester[crs.SemesterID], crs)
	}
	for i := range semesters {
		owned := bySemester[semesters[i].ID]
		if owned == nil {
			owned = []Course{}
		}
		semesters[i].Courses = owned
	}
}
