package inquiry

import (
	"context"
	"testing"
	"time"

	"arone/database"
	bookingRepo "arone/database/repository/booking"
	packageRepo "arone/database/repository/tourpackage"
	"arone/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentPush struct {
	userID string
	title  string
}

type mockNotifier struct {
	sent []sentPush
}

func (m *mockNotifier) NotifyUser(_ context.Context, userID, title, _ string, _ map[string]string) error {
	m.sent = append(m.sent, sentPush{userID: userID, title: title})
	return nil
}

type fixture struct {
	svc      *DefaultInquiryService
	store    *database.MemoryStore
	bookings *bookingRepo.StoreBookingRepo
	notifier *mockNotifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := database.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, database.PackagesCollection, "ella", map[string]any{"vendorId": "V1", "name": "Ella Hike", "price": 50}))
	require.NoError(t, store.Set(ctx, database.PackagesCollection, "legacy", map[string]any{"name": "Old Fort Walk", "price": 20}))

	bookings := bookingRepo.NewStoreBookingRepo(store)
	n := &mockNotifier{}
	svc := NewInquiryService(packageRepo.NewStorePackageRepo(store), bookings, n, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return fixture{svc: svc, store: store, bookings: bookings, notifier: n}
}

var traveler = Party{ID: "T1", Email: "t@x.com"}

func TestCreateInquiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.CreateInquiry(ctx, traveler, models.InquiryInput{PackageID: "ella", Message: "Is sunrise included?"})
	require.NoError(t, err)

	b, err := f.bookings.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ella Hike", b.PackageName)
	assert.Equal(t, "V1", b.VendorID)
	assert.Equal(t, "T1", b.TravelerID)
	assert.Equal(t, "t@x.com", b.TravelerEmail)
	assert.Equal(t, models.StatusPending, b.Status)
	require.NotNil(t, b.PackagePrice)
	assert.Equal(t, 50.0, *b.PackagePrice)
	require.Len(t, b.Messages, 1)
	assert.Equal(t, models.SenderTraveler, b.Messages[0].Sender)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "V1", f.notifier.sent[0].userID)
}

func TestCreateInquiry_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateInquiry(ctx, traveler, models.InquiryInput{PackageID: "legacy"})
	assert.ErrorIs(t, err, ErrLegacyPackage)

	_, err = f.svc.CreateInquiry(ctx, traveler, models.InquiryInput{PackageID: "gone"})
	assert.ErrorIs(t, err, ErrPackageNotFound)

	docs, err := f.store.Query(ctx, database.BookingsCollection, database.Filter{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestAppendMessage_VendorReplySetsReplied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.svc.CreateInquiry(ctx, traveler, models.InquiryInput{PackageID: "ella"})
	require.NoError(t, err)

	require.NoError(t, f.svc.AppendMessage(ctx, Party{ID: "V1"}, id, "Yes, 5am pickup"))
	b, err := f.bookings.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReplied, b.Status)
	require.Len(t, b.Messages, 2)
	assert.Equal(t, models.SenderSystem, b.Messages[0].Sender)
	assert.Equal(t, models.SenderVendor, b.Messages[1].Sender)

	require.NoError(t, f.svc.AppendMessage(ctx, traveler, id, "Great"))
	b, err = f.bookings.GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, b.Messages, 3)
	assert.Equal(t, models.SenderTraveler, b.Messages[2].Sender)
	assert.Equal(t, "Great", b.Messages[2].Text)
}

func TestAppendMessage_VendorReplyKeepsConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.svc.CreateInquiry(ctx, traveler, models.InquiryInput{PackageID: "ella"})
	require.NoError(t, err)
	require.NoError(t, f.svc.ConfirmBooking(ctx, "V1", id))

	require.NoError(t, f.svc.AppendMessage(ctx, Party{ID: "V1"}, id, "See you there"))
	b, err := f.bookings.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, b.Status)
}

func TestAppendMessage_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.svc.CreateInquiry(ctx, traveler, models.InquiryInput{PackageID: "ella"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.AppendMessage(ctx, Party{ID: "V2"}, id, "hi"), ErrNotParty)
	assert.ErrorIs(t, f.svc.AppendMessage(ctx, traveler, id, "   "), ErrEmptyMessage)
	assert.ErrorIs(t, f.svc.AppendMessage(ctx, traveler, "missing", "hi"), ErrBookingNotFound)
}

func TestConfirmAndDelete_OnlyOwningVendor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.svc.CreateInquiry(ctx, traveler, models.InquiryInput{PackageID: "ella"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ConfirmBooking(ctx, "V2", id), ErrNotParty)
	assert.ErrorIs(t, f.svc.DeleteBooking(ctx, "T1", id), ErrNotParty)

	require.NoError(t, f.svc.ConfirmBooking(ctx, "V1", id))
	assert.Equal(t, "T1", f.notifier.sent[len(f.notifier.sent)-1].userID)

	require.NoError(t, f.svc.DeleteBooking(ctx, "V1", id))
	_, err = f.bookings.GetByID(ctx, id)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestIsVendorOf_MixedBundle(t *testing.T) {
	b := &models.Booking{Items: []models.ItineraryItem{{VendorID: "V1"}, {VendorID: "V2"}}}
	assert.True(t, isVendorOf(b, "V2"))
	assert.False(t, isVendorOf(b, "V3"))
	assert.False(t, isVendorOf(b, ""))
}
