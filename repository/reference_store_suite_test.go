package repository

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"hukukai-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runReferenceStoreSuite exercises behavior every backend must share.
// newStore must return an empty, initialized store.
func runReferenceStoreSuite(t *testing.T, newStore func(t *testing.T) ReferenceStore) {
	t.Run("SearchStatutesMatchesNameAndContent", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		seedStatute(t, store, "6098", "Türk Borçlar Kanunu", "Borçlar Hukuku", "Sözleşme ve tazminat hükümleri")
		seedStatute(t, store, "4857", "İş Kanunu", "İş Hukuku", "İşçi ve işveren ilişkileri")

		byName, err := store.SearchStatutes(ctx, "Borçlar", "")
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "6098", byName[0].StatuteNumber)

		byContent, err := store.SearchStatutes(ctx, "işveren", "")
		require.NoError(t, err)
		require.Len(t, byContent, 1)
		assert.Equal(t, "4857", byContent[0].StatuteNumber)
	})

	t.Run("SearchStatutesFiltersByCategory", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		seedStatute(t, store, "6098", "Türk Borçlar Kanunu", "Borçlar Hukuku", "tazminat")
		seedStatute(t, store, "4857", "İş Kanunu", "İş Hukuku", "kıdem tazminat")

		all, err := store.SearchStatutes(ctx, "tazminat", "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		labor, err := store.SearchStatutes(ctx, "tazminat", "İş Hukuku")
		require.NoError(t, err)
		require.Len(t, labor, 1)
		assert.Equal(t, "4857", labor[0].StatuteNumber)
	})

	t.Run("SearchStatutesTruncatesContent", func(t *testing.T) {
		store := newStore(t)
		long := strings.Repeat("ş", 600)
		seedStatute(t, store, "1", "Uzun Kanun", "Borçlar Hukuku", long)

		results, err := store.SearchStatutes(context.Background(), "Uzun", "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, strings.Repeat("ş", 500)+"...", results[0].Content)
	})

	t.Run("SearchStatutesEscapesWildcards", func(t *testing.T) {
		store := newStore(t)
		seedStatute(t, store, "1", "Kanun A", "", "yüzde 50 faiz")
		seedStatute(t, store, "2", "Kanun B", "", "yüzde 50% faiz")

		results, err := store.SearchStatutes(context.Background(), "50%", "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "2", results[0].StatuteNumber)
	})

	t.Run("SearchStatutesCapsResults", func(t *testing.T) {
		store := newStore(t)
		for i := 0; i < searchLimit+5; i++ {
			seedStatute(t, store, "", "Kanun", "", "ortak metin")
		}

		results, err := store.SearchStatutes(context.Background(), "ortak", "")
		require.NoError(t, err)
		assert.Len(t, results, searchLimit)
	})

	t.Run("SearchDecisionsNewestFirst", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		seedDecision(t, store, "2019/1", "2019-03-01", "Yargıtay 9. Hukuk Dairesi", "Kıdem tazminatı", "")
		seedDecision(t, store, "2021/7", "2021-06-15", "Yargıtay 9. Hukuk Dairesi", "İhbar tazminatı", "")
		seedDecision(t, store, "2020/3", "2020-01-10", "Yargıtay 2. Hukuk Dairesi", "Boşanma", "nafaka")

		results, err := store.SearchDecisions(ctx, "tazminat", "")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "2021/7", results[0].DecisionNumber)
		assert.Equal(t, "2019/1", results[1].DecisionNumber)

		byKeywords, err := store.SearchDecisions(ctx, "nafaka", "")
		require.NoError(t, err)
		require.Len(t, byKeywords, 1)

		filtered, err := store.SearchDecisions(ctx, "tazminat", "Yargıtay 2. Hukuk Dairesi")
		require.NoError(t, err)
		assert.Empty(t, filtered)
	})

	t.Run("SearchReturnsEmptySliceWhenNothingMatches", func(t *testing.T) {
		store := newStore(t)
		statutes, err := store.SearchStatutes(context.Background(), "yok", "")
		require.NoError(t, err)
		assert.NotNil(t, statutes)
		assert.Empty(t, statutes)
	})

	t.Run("GetStatuteByNumber", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		seeded := seedStatute(t, store, "4721", "Türk Medeni Kanunu", "Medeni Hukuk", "")

		statute, err := store.GetStatuteByNumber(ctx, "4721")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, statute.ID)
		assert.Equal(t, "Türk Medeni Kanunu", statute.Name)

		_, err = store.GetStatuteByNumber(ctx, "9999")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("GetStatuteByIDOrdersArticlesAsText", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		statute := seedStatute(t, store, "4721", "Türk Medeni Kanunu", "Medeni Hukuk", "")
		for _, no := range []string{"2", "166", "10"} {
			require.NoError(t, store.InsertArticle(ctx, &models.StatuteArticle{
				StatuteID:     statute.ID,
				ArticleNumber: no,
				Content:       "madde " + no,
			}))
		}

		full, err := store.GetStatuteByID(ctx, statute.ID)
		require.NoError(t, err)
		require.Len(t, full.Articles, 3)
		assert.Equal(t, "10", full.Articles[0].ArticleNumber)
		assert.Equal(t, "166", full.Articles[1].ArticleNumber)
		assert.Equal(t, "2", full.Articles[2].ArticleNumber)

		_, err = store.GetStatuteByID(ctx, statute.ID+100)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("GetArticle", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		statute := seedStatute(t, store, "6098", "Türk Borçlar Kanunu", "Borçlar Hukuku", "")
		require.NoError(t, store.InsertArticle(ctx, &models.StatuteArticle{
			StatuteID: statute.ID, ArticleNumber: "49", Content: "Haksız fiil",
		}))

		article, err := store.GetArticle(ctx, statute.ID, "49")
		require.NoError(t, err)
		assert.Equal(t, "Haksız fiil", article.Content)

		_, err = store.GetArticle(ctx, statute.ID, "50")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("InsertArticleRequiresStatute", func(t *testing.T) {
		store := newStore(t)
		err := store.InsertArticle(context.Background(), &models.StatuteArticle{StatuteID: 42, ArticleNumber: "1"})
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("InsertStatuteRequiresName", func(t *testing.T) {
		store := newStore(t)
		err := store.InsertStatute(context.Background(), &models.Statute{StatuteNumber: "1"})
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("InsertDecisionSkipsDuplicates", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		first := &models.CourtDecision{DecisionNumber: "2021/3456", Chamber: "Yargıtay 22. Hukuk Dairesi", Subject: "a"}
		inserted, err := store.InsertDecision(ctx, first)
		require.NoError(t, err)
		assert.True(t, inserted)

		again := &models.CourtDecision{DecisionNumber: "2021/3456", Chamber: "Yargıtay 22. Hukuk Dairesi", Subject: "b"}
		inserted, err = store.InsertDecision(ctx, again)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Equal(t, first.ID, again.ID)

		otherChamber := &models.CourtDecision{DecisionNumber: "2021/3456", Chamber: "Yargıtay 2. Ceza Dairesi"}
		inserted, err = store.InsertDecision(ctx, otherChamber)
		require.NoError(t, err)
		assert.True(t, inserted)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Decisions)
	})

	t.Run("FindDecisionPrefersChamber", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		civil := seedDecision(t, store, "2021/3456", "2021-05-01", "Yargıtay 22. Hukuk Dairesi", "İşe iade", "")
		criminal := seedDecision(t, store, "2021/3456", "2021-07-01", "Yargıtay 2. Ceza Dairesi", "Hırsızlık", "")

		found, err := store.FindDecision(ctx, "2021/3456", "Yargıtay 2. Ceza Dairesi")
		require.NoError(t, err)
		assert.Equal(t, criminal.ID, found.ID)

		found, err = store.FindDecision(ctx, "2021/3456", "22. Hukuk Dairesi")
		require.NoError(t, err)
		assert.Equal(t, civil.ID, found.ID)

		// Unknown chamber falls back to the exact number
		found, err = store.FindDecision(ctx, "2021/3456", "Yargıtay 5. Hukuk Dairesi")
		require.NoError(t, err)
		assert.Equal(t, civil.ID, found.ID)
	})

	t.Run("FindDecisionFuzzyFallback", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		stored := seedDecision(t, store, "E.2019/8765", "2019-10-01", "Yargıtay 2. Hukuk Dairesi", "Velayet", "")

		found, err := store.FindDecision(ctx, "2019/8765", "Yargıtay 2. Hukuk Dairesi")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, found.ID)

		_, err = store.FindDecision(ctx, "2019/8765", "")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.FindDecision(ctx, "2000/1", "Yargıtay 2. Hukuk Dairesi")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("SearchFoldsTurkishCase", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		seedStatute(t, store, "4857", "İŞ KANUNU", "İş Hukuku", "İşçinin Kıdem Tazminatı hakkı saklıdır")
		seedDecision(t, store, "2021/5", "2021-02-01", "Yargıtay 9. Hukuk Dairesi", "İşe İade Davası", "")

		for _, query := range []string{"işçinin", "İŞÇİNİN", "iş kanunu", "KIDEM"} {
			results, err := store.SearchStatutes(ctx, query, "")
			require.NoError(t, err)
			assert.Len(t, results, 1, query)
		}

		// Dotless ı and dotted i are different letters
		none, err := store.SearchStatutes(ctx, "ışçinin", "")
		require.NoError(t, err)
		assert.Empty(t, none)

		decisions, err := store.SearchDecisions(ctx, "işe iade", "")
		require.NoError(t, err)
		require.Len(t, decisions, 1)
		assert.Equal(t, "2021/5", decisions[0].DecisionNumber)
	})

	t.Run("SearchArticles", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		labor := seedStatute(t, store, "4857", "İş Kanunu", "İş Hukuku", "")
		civil := seedStatute(t, store, "4721", "Türk Medeni Kanunu", "Medeni Hukuk", "")
		for _, a := range []struct {
			statuteID int64
			no        string
			content   string
		}{
			{labor.ID, "18", "Feshin geçerli sebebe dayandırılması"},
			{labor.ID, "20", "Fesih bildirimine itiraz ve usulü"},
			{labor.ID, "21", "Geçersiz sebeple feshin sonuçları"},
			{civil.ID, "166", "Evlilik birliğinin temelinden sarsılması, 100% kusur"},
		} {
			require.NoError(t, store.InsertArticle(ctx, &models.StatuteArticle{
				StatuteID: a.statuteID, ArticleNumber: a.no, Content: a.content,
			}))
		}

		byLaw, err := store.SearchArticles(ctx, labor.ID, "")
		require.NoError(t, err)
		require.Len(t, byLaw, 3)
		assert.Equal(t, "18", byLaw[0].ArticleNumber)
		assert.Equal(t, "İş Kanunu", byLaw[0].StatuteName)
		assert.Equal(t, "4857", byLaw[0].StatuteNumber)

		byText, err := store.SearchArticles(ctx, 0, "FESİH")
		require.NoError(t, err)
		require.Len(t, byText, 1)
		assert.Equal(t, "20", byText[0].ArticleNumber)

		scoped, err := store.SearchArticles(ctx, civil.ID, "fesih")
		require.NoError(t, err)
		assert.Empty(t, scoped)

		escaped, err := store.SearchArticles(ctx, 0, "100%")
		require.NoError(t, err)
		require.Len(t, escaped, 1)
		assert.Equal(t, "Türk Medeni Kanunu", escaped[0].StatuteName)

		nothing, err := store.SearchArticles(ctx, 0, "")
		require.NoError(t, err)
		assert.NotNil(t, nothing)
		assert.Empty(t, nothing)
	})

	t.Run("SearchArticlesTruncatesAndCaps", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		statute := seedStatute(t, store, "1", "Uzun Kanun", "", "")
		long := strings.Repeat("ğ", 600)
		for i := 0; i < articleSearchLimit+5; i++ {
			require.NoError(t, store.InsertArticle(ctx, &models.StatuteArticle{
				StatuteID: statute.ID, ArticleNumber: strconv.Itoa(i + 1), Content: long,
			}))
		}

		results, err := store.SearchArticles(ctx, statute.ID, "ğğ")
		require.NoError(t, err)
		require.Len(t, results, articleSearchLimit)
		assert.Equal(t, strings.Repeat("ğ", 500)+"...", results[0].Content)
	})

	t.Run("InitSchemaKeepsData", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		statute := seedStatute(t, store, "6098", "Türk Borçlar Kanunu", "", "")
		require.NoError(t, store.InsertArticle(ctx, &models.StatuteArticle{StatuteID: statute.ID, ArticleNumber: "49"}))
		seedDecision(t, store, "2020/1", "2020-01-01", "Yargıtay 9. Hukuk Dairesi", "", "")

		before, err := store.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, models.CorpusStats{Statutes: 1, Articles: 1, Decisions: 1}, before)

		require.NoError(t, store.InitSchema(ctx))
		require.NoError(t, store.InitSchema(ctx))

		after, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		found, err := store.GetStatuteByNumber(ctx, "6098")
		require.NoError(t, err)
		assert.Equal(t, statute.ID, found.ID)
	})

	t.Run("ResetAllEmptiesStore", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		statute := seedStatute(t, store, "6098", "Türk Borçlar Kanunu", "", "")
		require.NoError(t, store.InsertArticle(ctx, &models.StatuteArticle{StatuteID: statute.ID, ArticleNumber: "1"}))
		seedDecision(t, store, "2020/1", "2020-01-01", "Yargıtay 9. Hukuk Dairesi", "", "")

		require.NoError(t, store.ResetAll(ctx))

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.CorpusStats{}, stats)

		// Store stays usable after a reset
		again := seedStatute(t, store, "6098", "Türk Borçlar Kanunu", "", "")
		assert.NotZero(t, again.ID)
	})

	t.Run("ResetAllIsIdempotent", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		require.NoError(t, store.ResetAll(ctx))
		require.NoError(t, store.ResetAll(ctx))
	})
}

func seedStatute(t *testing.T, store ReferenceStore, number, name, category, content string) *models.Statute {
	t.Helper()
	statute := &models.Statute{
		StatuteNumber: number,
		Name:          name,
		Category:      category,
		Content:       content,
	}
	require.NoError(t, store.InsertStatute(context.Background(), statute))
	require.NotZero(t, statute.ID)
	return statute
}

func seedDecision(t *testing.T, store ReferenceStore, number, date, chamber, subject, keywords string) *models.CourtDecision {
	t.Helper()
	decision := &models.CourtDecision{
		DecisionNumber: number,
		DecisionDate:   date,
		Chamber:        chamber,
		Subject:        subject,
		Content:        subject,
		Keywords:       keywords,
	}
	inserted, err := store.InsertDecision(context.Background(), decision)
	require.NoError(t, err)
	require.True(t, inserted)
	return decision
}
