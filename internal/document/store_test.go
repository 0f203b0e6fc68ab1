package document

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/persistence"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)


// recordingPersistence keeps every saved snapshot in memory.
type recordingPersistence struct {
	mu      sync.Mutex
	initial types.ResumeDocument
	saved   []types.ResumeDocument
	clears  int
	saveErr error
}

func (p *recordingPersistence) Load(context.Context) types.ResumeDocument {
	if p.initial.Template == "" {
		return types.DefaultDocument()
	}
	return p.initial.Clone()
}

func (p *recordingPersistence) Save(_ context.Context, doc types.ResumeDocument) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = append(p.saved, doc.Clone())
	return p.saveErr
}

func (p *recordingPersistence) Clear(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clears++
	return nil
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *recordingPersistence) {
	t.Helper()
	p := &recordingPersistence{}
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	return New(context.Background(), p, opts...), p
}

func TestNew_SeedsFromPersistence(t *testing.T) {
	seed := types.DefaultDocument()
	seed.Summary = "seeded"
	p := &recordingPersistence{initial: seed}

	s := New(context.Background(), p, WithLogger(logging.Discard()))
	assert.Equal(t, "seeded", s.Snapshot().Summary)
	assert.Empty(t, p.saved, "seeding must not write")
}

func TestSnapshot_IsPrivateCopy(t *testing.T) {
	s, _ := newTestStore(t)

	snap := s.Snapshot()
	snap.Skills[0] = "mutated"
	snap.Experience[0].Title = "mutated"

	fresh := s.Snapshot()
	assert.NotEqual(t, "mutated", fresh.Skills[0])
	assert.NotEqual(t, "mutated", fresh.Experience[0].Title)
}

func TestSetPersonalField(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	before := s.Snapshot()

	doc, changed := s.SetPersonalField(ctx, types.FieldEmail, "ada@example.com")
	require.True(t, changed)
	assert.Equal(t, "ada@example.com", doc.Personal.Email)

	want := before.Clone()
	want.Personal.Email = "ada@example.com"
	assert.Empty(t, cmp.Diff(want, doc), "only the targeted field changes")
	require.Len(t, p.saved, 1)
	assert.Empty(t, cmp.Diff(doc, p.saved[0]))
}

func TestSetPersonalField_UnknownFieldIsNoop(t *testing.T) {
	s, p := newTestStore(t)
	before := s.Snapshot()

	doc, changed := s.SetPersonalField(context.Background(), types.PersonalField("nickname"), "x")
	assert.False(t, changed)
	assert.Empty(t, cmp.Diff(before, doc))
	assert.Empty(t, p.saved)
}

func TestSetSummary(t *testing.T) {
	s, _ := newTestStore(t)
	doc, changed := s.SetSummary(context.Background(), "Builds things.\nShips them.")
	assert.True(t, changed)
	assert.Equal(t, "Builds things.\nShips them.", doc.Summary)
}

func TestSetTemplate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	doc, changed := s.SetTemplate(ctx, types.TemplateClassic)
	assert.True(t, changed)
	assert.Equal(t, types.TemplateClassic, doc.Template)

	doc, changed = s.SetTemplate(ctx, types.TemplateVariant("bogus"))
	assert.False(t, changed)
	assert.Equal(t, types.TemplateClassic, doc.Template, "invalid variant keeps the prior value")
	assert.Equal(t, types.TemplateClassic, s.Snapshot().Template)
}

func TestAddSkill(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	before := s.Snapshot().Skills

	doc, changed := s.AddSkill(ctx, "Rust")
	require.True(t, changed)
	assert.Equal(t, append(append([]string{}, before...), "Rust"), doc.Skills)

	doc, changed = s.AddSkill(ctx, "Rust")
	assert.True(t, changed, "duplicates are allowed")
	assert.Equal(t, "Rust", doc.Skills[len(doc.Skills)-1])
	assert.Equal(t, "Rust", doc.Skills[len(doc.Skills)-2])
}

func TestAddSkill_BlankIsNoop(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	before := s.Snapshot().Skills

	for _, text := range []string{"", "   ", "\t\n"} {
		doc, changed := s.AddSkill(ctx, text)
		assert.False(t, changed, "%q", text)
		assert.Equal(t, before, doc.Skills)
	}
	assert.Empty(t, p.saved)
}

func TestRemoveSkill(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	before := s.Snapshot().Skills
	require.GreaterOrEqual(t, len(before), 3)

	doc, changed := s.RemoveSkill(ctx, 1)
	require.True(t, changed)
	want := append(append([]string{}, before[:1]...), before[2:]...)
	assert.Equal(t, want, doc.Skills)

	for _, idx := range []int{-1, len(doc.Skills), 100} {
		got, changed := s.RemoveSkill(ctx, idx)
		assert.False(t, changed, "index %d", idx)
		assert.Equal(t, want, got.Skills)
	}
}

func TestClearSkills(t *testing.T) {
	s, _ := newTestStore(t)
	doc, changed := s.ClearSkills(context.Background())
	assert.True(t, changed)
	assert.NotNil(t, doc.Skills)
	assert.Empty(t, doc.Skills)
}

func TestAddThenRemoveDefaultExperience(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	id, doc := s.AddExperience(ctx)
	require.Len(t, doc.Experience, 2)
	assert.NotEmpty(t, id)
	assert.NotEqual(t, types.DefaultExperienceID, id)
	assert.Equal(t, types.ExperienceEntry{ID: id}, doc.Experience[1])

	doc, changed := s.RemoveExperience(ctx, types.DefaultExperienceID)
	require.True(t, changed)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, id, doc.Experience[0].ID)
}

func TestUpdateExperience(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	doc, changed := s.UpdateExperience(ctx, types.DefaultExperienceID, types.ExperienceCompany, "Acme")
	require.True(t, changed)
	assert.Equal(t, "Acme", doc.Experience[0].Company)
	assert.Equal(t, types.DefaultDocument().Experience[0].Title, doc.Experience[0].Title)

	_, changed = s.UpdateExperience(ctx, types.DefaultExperienceID, types.ExperienceField("id"), "other")
	assert.False(t, changed, "id is not editable")
	_, changed = s.UpdateExperience(ctx, "missing", types.ExperienceTitle, "x")
	assert.False(t, changed)
}

func TestRemoveThenUpdateExperienceIsNoop(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)

	removed, changed := s.RemoveExperience(ctx, types.DefaultExperienceID)
	require.True(t, changed)
	saves := len(p.saved)

	doc, changed := s.UpdateExperience(ctx, types.DefaultExperienceID, types.ExperienceTitle, "Ghost")
	assert.False(t, changed)
	assert.Empty(t, cmp.Diff(removed, doc))
	assert.Len(t, p.saved, saves)

	_, changed = s.RemoveExperience(ctx, types.DefaultExperienceID)
	assert.False(t, changed, "double removal is ignored")
}

func TestEducationOperations(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	id, doc := s.AddEducation(ctx)
	require.Len(t, doc.Education, 2)
	assert.Equal(t, types.EducationEntry{ID: id}, doc.Education[1])

	doc, changed := s.UpdateEducation(ctx, id, types.EducationSchool, "MIT")
	require.True(t, changed)
	assert.Equal(t, "MIT", doc.Education[1].School)

	_, changed = s.UpdateEducation(ctx, "missing", types.EducationSchool, "x")
	assert.False(t, changed)

	doc, changed = s.RemoveEducation(ctx, types.DefaultEducationID)
	require.True(t, changed)
	require.Len(t, doc.Education, 1)
	assert.Equal(t, id, doc.Education[0].ID)

	_, changed = s.RemoveEducation(ctx, types.DefaultEducationID)
	assert.False(t, changed)
}

func TestIDGenerator_CollisionsAreRetried(t *testing.T) {
	ids := []string{types.DefaultExperienceID, types.DefaultExperienceID, "fresh-1", "fresh-1", "fresh-2"}
	var n int
	gen := func() string {
		id := ids[n%len(ids)]
		n++
		return id
	}
	ctx := context.Background()
	s, _ := newTestStore(t, WithIDGenerator(gen))

	first, _ := s.AddExperience(ctx)
	assert.Equal(t, "fresh-1", first)
	second, _ := s.AddExperience(ctx)
	assert.Equal(t, "fresh-2", second)
}

func TestIDGenerator_StuckGeneratorStillUnique(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, WithIDGenerator(func() string { return "same" }))

	for i := 0; i < 5; i++ {
		s.AddEducation(ctx)
	}
	doc := s.Snapshot()
	assert.NoError(t, doc.Validate())
}

func TestIDsStayUniqueAcrossOperations(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var expIDs, eduIDs []string
	for i := 0; i < 20; i++ {
		id, _ := s.AddExperience(ctx)
		expIDs = append(expIDs, id)
		id, _ = s.AddEducation(ctx)
		eduIDs = append(eduIDs, id)
		if i%3 == 0 {
			s.RemoveExperience(ctx, expIDs[i/2])
			s.RemoveEducation(ctx, eduIDs[i/2])
		}
	}

	doc := s.Snapshot()
	require.NoError(t, doc.Validate())
	seen := map[string]bool{}
	for _, e := range doc.Experience {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestSubscribe_ReceivesCommittedSnapshots(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var got []string
	unsubscribe := s.Subscribe(func(doc types.ResumeDocument) {
		got = append(got, doc.Summary)
	})

	s.SetSummary(ctx, "one")
	s.AddSkill(ctx, " ") // no-op, no notification
	s.SetSummary(ctx, "two")
	unsubscribe()
	unsubscribe()
	s.SetSummary(ctx, "three")

	assert.Equal(t, []string{"one", "two"}, got)
}

func TestSubscribe_NotifiesInSubscriptionOrder(t *testing.T) {
	s, _ := newTestStore(t)

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		s.Subscribe(func(types.ResumeDocument) { order = append(order, name) })
	}
	s.ClearSkills(context.Background())
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSubscribe_PersistsBeforeNotifying(t *testing.T) {
	s, p := newTestStore(t)

	var savedAtNotify int
	s.Subscribe(func(types.ResumeDocument) { savedAtNotify = len(p.saved) })
	s.SetSummary(context.Background(), "x")
	assert.Equal(t, 1, savedAtNotify)
}

func TestWriteFailureKeepsInMemoryDocument(t *testing.T) {
	p := &recordingPersistence{saveErr: errors.New("quota exceeded")}
	s := New(context.Background(), p, WithLogger(logging.Discard()))

	doc, changed := s.SetSummary(context.Background(), "still here")
	assert.True(t, changed)
	assert.Equal(t, "still here", doc.Summary)
	assert.Equal(t, "still here", s.Snapshot().Summary)
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)

	next := types.DefaultDocument()
	next.Personal.FirstName = "Imported"
	doc, err := s.Replace(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, "Imported", doc.Personal.FirstName)
	assert.Len(t, p.saved, 1)

	bad := types.DefaultDocument()
	bad.Template = "bogus"
	doc, err = s.Replace(ctx, bad)
	assert.Error(t, err)
	assert.Equal(t, "Imported", doc.Personal.FirstName)
}

func TestResetToDefault(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemoryKV()
	adapter := persistence.NewAdapter(kv, persistence.WithLogger(logging.Discard()))
	s := New(ctx, adapter, WithLogger(logging.Discard()))

	s.SetPersonalField(ctx, types.FieldFirstName, "Ada")
	s.AddSkill(ctx, "Analytical Engines")
	s.AddExperience(ctx)
	s.ClearSkills(ctx)
	s.SetTemplate(ctx, types.TemplateClassic)

	var notified bool
	s.Subscribe(func(types.ResumeDocument) { notified = true })

	doc := s.ResetToDefault(ctx)
	assert.True(t, notified)
	assert.Empty(t, cmp.Diff(types.DefaultDocument(), doc))
	assert.Empty(t, cmp.Diff(types.DefaultDocument(), s.Snapshot()))

	_, ok, err := kv.Get(ctx, persistence.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok, "stored draft is cleared")
	assert.Empty(t, cmp.Diff(types.DefaultDocument(), adapter.Load(ctx)))
}

func TestPersistedStateMatchesMemory(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemoryKV()
	adapter := persistence.NewAdapter(kv, persistence.WithLogger(logging.Discard()))
	s := New(ctx, adapter, WithLogger(logging.Discard()))

	id, _ := s.AddExperience(ctx)
	s.UpdateExperience(ctx, id, types.ExperienceDescription, "Led <the> team & \"shipped\"")
	s.AddSkill(ctx, "Go")
	s.RemoveSkill(ctx, 0)

	reopened := New(ctx, persistence.NewAdapter(kv, persistence.WithLogger(logging.Discard())))
	assert.Empty(t, cmp.Diff(s.Snapshot(), reopened.Snapshot()))
}

func TestInvalidUTF8_PersistedStateMatchesMemory(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemoryKV()
	adapter := persistence.NewAdapter(kv, persistence.WithLogger(logging.Discard()))
	s := New(ctx, adapter, WithLogger(logging.Discard()))

	doc, changed := s.SetPersonalField(ctx, types.FieldFirstName, "Jos\xe9")
	require.True(t, changed)
	assert.Equal(t, "Jos\uFFFD", doc.Personal.FirstName)

	s.SetSummary(ctx, "bad \xff\xfe bytes")
	s.AddSkill(ctx, "G\xc3")
	id, _ := s.AddExperience(ctx)
	s.UpdateExperience(ctx, id, types.ExperienceTitle, "Lead\x80")
	eid, _ := s.AddEducation(ctx)
	doc, _ = s.UpdateEducation(ctx, eid, types.EducationSchool, "\xe9cole")

	assert.Empty(t, cmp.Diff(doc, adapter.Load(ctx)))
}

func TestConcurrentMutationsNotifyInCommitOrder(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)

	var mu sync.Mutex
	var notified []int
	s.Subscribe(func(doc types.ResumeDocument) {
		mu.Lock()
		notified = append(notified, len(doc.Skills))
		mu.Unlock()
	})
	base := len(s.Snapshot().Skills)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AddSkill(ctx, fmt.Sprintf("skill-%d", i))
		}(i)
	}
	wg.Wait()

	require.Len(t, notified, 50)
	for i, n := range notified {
		assert.Equal(t, base+i+1, n)
	}
	assert.Len(t, p.saved, 50)
	assert.Empty(t, cmp.Diff(s.Snapshot(), p.saved[len(p.saved)-1]))
}
