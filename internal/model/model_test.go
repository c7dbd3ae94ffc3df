package model

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftDelete_MarkDeletedIsIdempotent(t *testing.T) {
	var s SoftDelete
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s.MarkDeleted(first)
	s.MarkDeleted(first.Add(time.Hour))

	assert.True(t, s.Deleted())
	require.NotNil(t, s.DeletedAt)
	assert.Equal(t, first, *s.DeletedAt)
}

func TestSoftDelete_RestoreOnLiveRecord(t *testing.T) {
	var s SoftDelete
	s.Restore()
	assert.False(t, s.IsDeleted)
	assert.Nil(t, s.DeletedAt)
}

// Property 1: deleted_at is set exactly when is_deleted is true, for any
// sequence of delete and restore calls, and restore always ends live.
func TestProperty_SoftDeleteRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("deleted_at iff is_deleted", prop.ForAll(
		func(ops []bool) bool {
			var s SoftDelete
			now := time.Now()
			for i, del := range ops {
				if del {
					s.MarkDeleted(now.Add(time.Duration(i) * time.Second))
				} else {
					s.Restore()
				}
				if s.IsDeleted != (s.DeletedAt != nil) {
					return false
				}
			}
			s.Restore()
			return !s.IsDeleted && s.DeletedAt == nil
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

func TestBlogPost_SetStatusStampsFirstPublish(t *testing.T) {
	p := &BlogPost{Status: PostStatusDraft}
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	p.SetStatus(PostStatusPublished, t0)
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, t0, *p.PublishedAt)
	assert.True(t, p.IsPublished())

	p.SetStatus(PostStatusArchived, t0.Add(time.Hour))
	p.SetStatus(PostStatusPublished, t0.Add(2*time.Hour))
	assert.Equal(t, t0, *p.PublishedAt)
}

func TestBlogPost_DraftToArchivedLeavesPublishedAtEmpty(t *testing.T) {
	p := &BlogPost{Status: PostStatusDraft}
	p.SetStatus(PostStatusArchived, time.Now())
	assert.Nil(t, p.PublishedAt)
	assert.False(t, p.IsPublished())
}

// Property 2: across any status history, published_at is the time of the
// first transition into published and never changes afterwards.
func TestProperty_PublishedAtSetOnce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	statuses := []string{PostStatusDraft, PostStatusPublished, PostStatusArchived}

	properties.Property("published_at is permanent", prop.ForAll(
		func(history []int) bool {
			p := &BlogPost{Status: PostStatusDraft}
			base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			var first *time.Time
			for i, idx := range history {
				at := base.Add(time.Duration(i) * time.Minute)
				status := statuses[idx]
				p.SetStatus(status, at)
				if status == PostStatusPublished && first == nil {
					first = &at
				}
				if first == nil && p.PublishedAt != nil {
					return false
				}
				if first != nil && (p.PublishedAt == nil || !p.PublishedAt.Equal(*first)) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.TestingRun(t)
}

func TestStringList_ValueScan(t *testing.T) {
	v, err := StringList{"ants", "termites"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["ants","termites"]`, v)

	v, err = StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, l)

	require.NoError(t, l.Scan(`["c"]`))
	assert.Equal(t, StringList{"c"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)

	assert.Error(t, l.Scan(42))
}

func TestUser_PasswordAndName(t *testing.T) {
	u := &User{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", u.FullName())
	assert.False(t, u.VerifyPassword("anything"))

	require.NoError(t, u.SetPassword("Secret123"))
	assert.True(t, u.VerifyPassword("Secret123"))
	assert.False(t, u.VerifyPassword("secret123"))

	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
}

func TestUser_IsAdmin(t *testing.T) {
	assert.False(t, (&User{}).IsAdmin())
	assert.True(t, (&User{IsStaff: true}).IsAdmin())
	assert.True(t, (&User{IsSuperuser: true}).IsAdmin())
}

func TestOffer_ValidityAndRemaining(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	o := &Offer{
		Status:     OfferStatusActive,
		Discount:   decimal.NewFromInt(10),
		ValidFrom:  from,
		ValidTo:    from.AddDate(0, 1, 0),
		UsageLimit: 2,
		UsedCount:  3,
	}
	assert.True(t, o.IsValidAt(from.AddDate(0, 0, 5)))
	assert.False(t, o.IsValidAt(from.AddDate(0, 2, 0)))
	assert.Equal(t, 0, o.Remaining())

	o.Status = OfferStatusInactive
	assert.False(t, o.IsValidAt(from.AddDate(0, 0, 5)))
}

func TestEnumValidators(t *testing.T) {
	assert.True(t, ValidPostStatus("archived"))
	assert.False(t, ValidPostStatus("deleted"))
	assert.True(t, ValidEnquiryStatus("in-progress"))
	assert.False(t, ValidEnquiryStatus("in_progress"))
	assert.True(t, ValidPriority("high"))
	assert.True(t, ValidEnquiryType("contact"))
	assert.True(t, ValidDisplayLocation("both"))
	assert.True(t, ValidEmploymentType("part-time"))
	assert.True(t, ValidJobStatus("closed"))
	assert.True(t, ValidDiscountType("fixed"))
	assert.True(t, ValidOfferStatus("expired"))
}
