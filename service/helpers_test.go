package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"hukukai-backend/models"
	"hukukai-backend/repository"

	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

// fixture holds the ids of the seeded corpus
type fixture struct {
	store      repository.ReferenceStore
	civilCode  *models.Statute // TMK, 4721
	obligation *models.Statute // TBK, 6098
	labor      *models.Statute // İK, 4857
	art166     *models.StatuteArticle
	art49      *models.StatuteArticle
	custody    *models.CourtDecision // 2019/8765, 2. Hukuk
	severance  *models.CourtDecision // 2020/1234, 9. Hukuk
	civilDup   *models.CourtDecision // 2021/3456, 22. Hukuk
	crimDup    *models.CourtDecision // 2021/3456, 2. Ceza
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := repository.NewSQLiteReferenceStore(ctx, filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{store: store}
	f.civilCode = insertStatute(t, store, "4721", "Türk Medeni Kanunu", "Medeni Hukuk", "Boşanma, velayet ve nafaka hükümleri")
	f.obligation = insertStatute(t, store, "6098", "Türk Borçlar Kanunu", "Borçlar Hukuku", "Sözleşme ve tazminat hükümleri")
	f.labor = insertStatute(t, store, "4857", "İş Kanunu", "İş Hukuku", "Kıdem tazminatı ve işe iade")

	f.art166 = insertArticle(t, store, f.civilCode.ID, "166", "Evlilik birliği, ortak hayatı sürdürmeleri kendilerinden beklenemeyecek derecede temelinden sarsılmış olursa...")
	f.art49 = insertArticle(t, store, f.obligation.ID, "49", "Kusurlu ve hukuka aykırı bir fiille başkasına zarar veren, bu zararı gidermekle yükümlüdür.")

	f.custody = insertDecision(t, store, "2019/8765", "2019-11-05", "Yargıtay 2. Hukuk Dairesi", "Velayet", "velayet,çocuğun üstün yararı")
	f.severance = insertDecision(t, store, "2020/1234", "2020-06-10", "Yargıtay 9. Hukuk Dairesi", "Kıdem tazminatı", "kıdem,tazminat")
	f.civilDup = insertDecision(t, store, "2021/3456", "2021-03-01", "Yargıtay 22. Hukuk Dairesi", "İşe iade", "işe iade")
	f.crimDup = insertDecision(t, store, "2021/3456", "2021-09-12", "Yargıtay 2. Ceza Dairesi", "Hırsızlık", "hırsızlık")
	return f
}

func insertStatute(t *testing.T, store repository.ReferenceStore, number, name, category, content string) *models.Statute {
	t.Helper()
	s := &models.Statute{StatuteNumber: number, Name: name, Category: category, Content: content}
	require.NoError(t, store.InsertStatute(context.Background(), s))
	return s
}

func insertArticle(t *testing.T, store repository.ReferenceStore, statuteID int64, number, content string) *models.StatuteArticle {
	t.Helper()
	a := &models.StatuteArticle{StatuteID: statuteID, ArticleNumber: number, Content: content}
	require.NoError(t, store.InsertArticle(context.Background(), a))
	return a
}

func insertDecision(t *testing.T, store repository.ReferenceStore, number, date, chamber, subject, kw string) *models.CourtDecision {
	t.Helper()
	d := &models.CourtDecision{
		DecisionNumber: number,
		DecisionDate:   date,
		Chamber:        chamber,
		Subject:        subject,
		Content:        subject + " hakkında karar",
		Keywords:       kw,
	}
	inserted, err := store.InsertDecision(context.Background(), d)
	require.NoError(t, err)
	require.True(t, inserted)
	return d
}

// faultyStore fails selected operations and delegates the rest
type faultyStore struct {
	repository.ReferenceStore
	failStatuteNumber string // GetStatuteByNumber fails for this number
	failSearchTerm    string // SearchStatutes fails for this query
	failFindDecision  bool
	blockStatutes     bool // GetStatuteByNumber waits for its context
	blockSearch       bool // SearchStatutes waits for its context
	calls             atomic.Int64
}

func (s *faultyStore) GetStatuteByNumber(ctx context.Context, number string) (*models.Statute, error) {
	s.calls.Add(1)
	if s.blockStatutes {
		<-ctx.Done()
		return nil, &repository.StorageError{Op: "get statute by number", Err: ctx.Err()}
	}
	if number == s.failStatuteNumber {
		return nil, &repository.StorageError{Op: "get statute by number", Err: errStoreDown}
	}
	return s.ReferenceStore.GetStatuteByNumber(ctx, number)
}

func (s *faultyStore) SearchStatutes(ctx context.Context, query, category string) ([]models.Statute, error) {
	if s.blockSearch {
		<-ctx.Done()
		return nil, &repository.StorageError{Op: "search statutes", Err: ctx.Err()}
	}
	if query == s.failSearchTerm {
		return nil, &repository.StorageError{Op: "search statutes", Err: errStoreDown}
	}
	return s.ReferenceStore.SearchStatutes(ctx, query, category)
}

func (s *faultyStore) FindDecision(ctx context.Context, number, chamber string) (*models.CourtDecision, error) {
	if s.failFindDecision {
		return nil, &repository.StorageError{Op: "find decision", Err: errStoreDown}
	}
	return s.ReferenceStore.FindDecision(ctx, number, chamber)
}

func lawIDs(laws []models.LawCitation) []int64 {
	ids := make([]int64, 0, len(laws))
	for _, l := range laws {
		ids = append(ids, l.ID)
	}
	return ids
}

func decisionIDs(decisions []models.DecisionCitation) []int64 {
	ids := make([]int64, 0, len(decisions))
	for _, d := range decisions {
		ids = append(ids, d.ID)
	}
	return ids
}
