//go:build e2e

package distribution_test

import (
	"context"
	"net/http"
	"testing"

	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/handler/dto/response"
	"relief-ledger/tests/common/authtest"
	"relief-ledger/tests/common/builder"
	"relief-ledger/tests/common/dbtest"
	"relief-ledger/tests/common/httptest"
	"relief-ledger/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	distributionsURL     = "/api/distributions"
	bulkDistributionsURL = "/api/distributions/bulk"
)

type DistributionSuite struct {
	e2e.SharedSuite
}

func (s *DistributionSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestDistributionSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(DistributionSuite))
}

// seedDistribution creates a conductor with a product balance, a workshop and
// one participant with the given attendance status. Returns what the request
// needs plus the conductor's token.
type distributionSeed struct {
	conductorID   uuid.UUID
	workshopID    uuid.UUID
	participantID uuid.UUID
	productID     uuid.UUID
	token         string
}

func (s *DistributionSuite) seedDistribution(t *testing.T, balance int64, attendance string) distributionSeed {
	conductorID := dbtest.CreateTestUser(t, s.DB, "conductor@example.com", string(user.RoleCoordinator))
	productID := dbtest.CreateTestProduct(t, s.DB, "Soap", "HYG-001", 1000)
	dbtest.SeedBalance(t, s.DB, conductorID, productID, "Soap", balance)
	workshopID := dbtest.CreateTestWorkshop(t, s.DB, "First Aid Basics", conductorID)
	participantID := dbtest.CreateTestParticipant(t, s.DB, "Amina Yusuf")
	dbtest.RegisterAttendance(t, s.DB, workshopID, participantID, attendance)

	token := authtest.LoginUser(t, s.Router, "conductor@example.com", "password123")

	return distributionSeed{
		conductorID:   conductorID,
		workshopID:    workshopID,
		participantID: participantID,
		productID:     productID,
		token:         token,
	}
}

func (s *DistributionSuite) countLedgerEntries(t *testing.T, productID uuid.UUID) int {
	var count int
	err := s.DB.QueryRow(context.Background(),
		"SELECT count(*) FROM stock_transactions WHERE product_id = $1", productID).Scan(&count)
	require.NoError(t, err)
	return count
}

func (s *DistributionSuite) availableBalance(t *testing.T, ownerID, productID uuid.UUID) int64 {
	var available int64
	err := s.DB.QueryRow(context.Background(),
		"SELECT available_quantity FROM balances WHERE owner_id = $1 AND product_id = $2",
		ownerID, productID).Scan(&available)
	require.NoError(t, err)
	return available
}

// =============================================================================
// TestDistribute - single distribution API tests
// =============================================================================

func (s *DistributionSuite) TestDistribute() {
	s.Run("Normal case: conductor distributes to an attended participant", func() {
		t := s.T()
		seed := s.seedDistribution(t, 25, "attended")

		reqBody := builder.NewDistributionBuilder().
			WithWorkshopID(seed.workshopID).
			WithParticipantID(seed.participantID).
			WithProductID(seed.productID).
			WithQuantity(5).
			BuildRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, distributionsURL,
			reqBody, seed.token, map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var res response.MutationResponse
		require.NoError(t, httptest.DecodeBody(w, &res))

		balanceAfter := int64(20)
		expected := response.MutationResponse{
			Kind:         "single_distribution",
			BalanceAfter: &balanceAfter,
			Recipients:   []uuid.UUID{seed.participantID},
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.MutationResponse{}, "Reference", "LedgerEntryIDs"),
		}
		require.Empty(t, cmp.Diff(expected, res, opts...))
		require.Len(t, res.LedgerEntryIDs, 1)

		require.Equal(t, int64(20), s.availableBalance(t, seed.conductorID, seed.productID))
		require.Equal(t, 1, s.countLedgerEntries(t, seed.productID))

		// workshop aggregate usage is folded into the materials_used document
		var materials string
		err := s.DB.QueryRow(context.Background(),
			"SELECT materials_used::text FROM workshops WHERE id = $1", seed.workshopID).Scan(&materials)
		require.NoError(t, err)
		require.Contains(t, materials, seed.productID.String())
		require.Contains(t, materials, seed.participantID.String())

		// participant receipt
		var received string
		err = s.DB.QueryRow(context.Background(),
			"SELECT materials_received::text FROM participants WHERE id = $1", seed.participantID).Scan(&received)
		require.NoError(t, err)
		require.Contains(t, received, seed.productID.String())
	})

	s.Run("Normal case: replay with the same key returns the recorded result without new writes", func() {
		t := s.T()
		seed := s.seedDistribution(t, 25, "attended")

		reqBody := builder.NewDistributionBuilder().
			WithWorkshopID(seed.workshopID).
			WithParticipantID(seed.participantID).
			WithProductID(seed.productID).
			WithQuantity(5).
			BuildRequestDTO()
		key := uuid.NewString()

		first := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, distributionsURL,
			reqBody, seed.token, map[string]string{"Idempotency-Key": key})
		require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

		second := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, distributionsURL,
			reqBody, seed.token, map[string]string{"Idempotency-Key": key})
		require.Equal(t, http.StatusCreated, second.Code, second.Body.String())

		var res response.MutationResponse
		require.NoError(t, httptest.DecodeBody(second, &res))
		require.True(t, res.Replayed)

		require.Equal(t, int64(20), s.availableBalance(t, seed.conductorID, seed.productID))
		require.Equal(t, 1, s.countLedgerEntries(t, seed.productID))
	})

	s.Run("Error case: same key with different parameters is rejected", func() {
		t := s.T()
		seed := s.seedDistribution(t, 25, "attended")
		key := uuid.NewString()

		base := builder.NewDistributionBuilder().
			WithWorkshopID(seed.workshopID).
			WithParticipantID(seed.participantID).
			WithProductID(seed.productID).
			WithQuantity(5)

		first := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, distributionsURL,
			base.BuildRequestDTO(), seed.token, map[string]string{"Idempotency-Key": key})
		require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

		second := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, distributionsURL,
			base.WithQuantity(6).BuildRequestDTO(), seed.token, map[string]string{"Idempotency-Key": key})
		require.Equal(t, http.StatusConflict, second.Code, second.Body.String())
	})

	s.Run("Error case: missing Idempotency-Key header", func() {
		t := s.T()
		seed := s.seedDistribution(t, 25, "attended")

		reqBody := builder.NewDistributionBuilder().
			WithWorkshopID(seed.workshopID).
			WithParticipantID(seed.participantID).
			WithProductID(seed.productID).
			BuildRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, distributionsURL, reqBody, seed.token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "idempotency key required")
	})

	s.Run("Error case: registered but not attended participant is not eligible", func() {
		t := s.T()
		seed := s.seedDistribution(t, 25, "registered")

		reqBody := builder.NewDistributionBuilder().
			WithWorkshopID(seed.workshopID).
			WithParticipantID(seed.participantID).
			WithProductID(seed.productID).
			BuildRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, distributionsURL,
			reqBody, seed.token, map[string]string{"Idempotency-Key": uuid.NewString()})
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "No eligible recipients")

		require.Equal(t, int64(25), s.availableBalance(t, seed.conductorID, seed.productID))
		require.Equal(t, 0, s.countLedgerEntries(t, seed.productID))
	})

	s.Run("Error case: insufficient balance leaves state untouched", func() {
		t := s.T()
		seed := s.seedDistribution(t, 25, "attended")

		reqBody := builder.NewDistributionBuilder().
			WithWorkshopID(seed.workshopID).
			WithParticipantID(seed.participantID).
			WithProductID(seed.productID).
			WithQuantity(30).
			BuildRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, distributionsURL,
			reqBody, seed.token, map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		var body map[string]any
		require.NoError(t, httptest.DecodeBody(w, &body))
		require.Equal(t, float64(25), body["have"])
		require.Equal(t, float64(30), body["need"])

		require.Equal(t, int64(25), s.availableBalance(t, seed.conductorID, seed.productID))
		require.Equal(t, 0, s.countLedgerEntries(t, seed.productID))
	})

	s.Run("Error case: a coordinator who is not the conductor is refused", func() {
		t := s.T()
		seed := s.seedDistribution(t, 25, "attended")

		dbtest.CreateTestUser(t, s.DB, "stranger@example.com", string(user.RoleCoordinator))
		strangerToken := authtest.LoginUser(t, s.Router, "stranger@example.com", "password123")

		reqBody := builder.NewDistributionBuilder().
			WithWorkshopID(seed.workshopID).
			WithParticipantID(seed.participantID).
			WithProductID(seed.productID).
			BuildRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, distributionsURL,
			reqBody, strangerToken, map[string]string{"Idempotency-Key": uuid.NewString()})
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Insufficient permissions")
	})
}

// =============================================================================
// TestDistributeBulk - bulk distribution API tests
// =============================================================================

func (s *DistributionSuite) TestDistributeBulk() {
	s.Run("Normal case: distributes to every eligible attendee atomically", func() {
		t := s.T()
		seed := s.seedDistribution(t, 25, "attended")

		late := dbtest.CreateTestParticipant(t, s.DB, "Bilal Hassan")
		dbtest.RegisterAttendance(t, s.DB, seed.workshopID, late, "late")
		leftEarly := dbtest.CreateTestParticipant(t, s.DB, "Chadia Noor")
		dbtest.RegisterAttendance(t, s.DB, seed.workshopID, leftEarly, "left-early")
		absent := dbtest.CreateTestParticipant(t, s.DB, "Daud Ismail")
		dbtest.RegisterAttendance(t, s.DB, seed.workshopID, absent, "absent")

		reqBody := builder.NewBulkDistributionBuilder().
			WithWorkshopID(seed.workshopID).
			WithProductID(seed.productID).
			WithQuantityEach(5).
			BuildRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bulkDistributionsURL,
			reqBody, seed.token, map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var res response.MutationResponse
		require.NoError(t, httptest.DecodeBody(w, &res))
		require.Equal(t, "bulk_distribution", res.Kind)
		require.NotNil(t, res.BalanceAfter)
		require.Equal(t, int64(10), *res.BalanceAfter)
		require.Len(t, res.LedgerEntryIDs, 3)
		require.Len(t, res.Recipients, 3)
		require.NotContains(t, res.Recipients, absent)

		require.Equal(t, int64(10), s.availableBalance(t, seed.conductorID, seed.productID))
		require.Equal(t, 3, s.countLedgerEntries(t, seed.productID))
	})

	s.Run("Error case: batch exceeding the balance is rejected whole", func() {
		t := s.T()
		seed := s.seedDistribution(t, 25, "attended")

		for _, name := range []string{"Bilal Hassan", "Chadia Noor", "Daud Ismail", "Elias Omar", "Fadwa Salim"} {
			p := dbtest.CreateTestParticipant(t, s.DB, name)
			dbtest.RegisterAttendance(t, s.DB, seed.workshopID, p, "attended")
		}

		// six eligible attendees at 5 each need 30 against a balance of 25
		reqBody := builder.NewBulkDistributionBuilder().
			WithWorkshopID(seed.workshopID).
			WithProductID(seed.productID).
			WithQuantityEach(5).
			BuildRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bulkDistributionsURL,
			reqBody, seed.token, map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		var body map[string]any
		require.NoError(t, httptest.DecodeBody(w, &body))
		require.Equal(t, float64(25), body["have"])
		require.Equal(t, float64(30), body["need"])

		require.Equal(t, int64(25), s.availableBalance(t, seed.conductorID, seed.productID))
		require.Equal(t, 0, s.countLedgerEntries(t, seed.productID))
	})

	s.Run("Error case: no eligible attendees at all", func() {
		t := s.T()
		seed := s.seedDistribution(t, 25, "absent")

		reqBody := builder.NewBulkDistributionBuilder().
			WithWorkshopID(seed.workshopID).
			WithProductID(seed.productID).
			BuildRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bulkDistributionsURL,
			reqBody, seed.token, map[string]string{"Idempotency-Key": uuid.NewString()})
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "No eligible recipients")
	})
}
