//go:build e2e

package program_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/handler/dto/response"
	"relief-ledger/tests/common/authtest"
	"relief-ledger/tests/common/dbtest"
	"relief-ledger/tests/common/httptest"
	"relief-ledger/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const enrollmentStatusURL = "/api/programs/%s/enrollments/%s/status"

type EnrollmentSuite struct {
	e2e.SharedSuite
}

func (s *EnrollmentSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestEnrollmentSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(EnrollmentSuite))
}

func (s *EnrollmentSuite) programCounters(t *testing.T, programID uuid.UUID) (int32, int32) {
	var enrolled, completed int32
	err := s.DB.QueryRow(context.Background(),
		"SELECT enrolled_participants, completed_participants FROM programs WHERE id = $1",
		programID).Scan(&enrolled, &completed)
	require.NoError(t, err)
	return enrolled, completed
}

func (s *EnrollmentSuite) TestChangeEnrollmentStatus() {
	s.Run("Normal case: completing an active enrollment bumps the completed counter", func() {
		t := s.T()

		coordinatorID := dbtest.CreateTestUser(t, s.DB, "coordinator@example.com", string(user.RoleCoordinator))
		programID := dbtest.CreateTestProgram(t, s.DB, "Winter Relief 2025", coordinatorID)
		participantID := dbtest.CreateTestParticipant(t, s.DB, "Amina Yusuf")
		dbtest.EnrollParticipant(t, s.DB, programID, participantID, "active")

		token := authtest.LoginUser(t, s.Router, "coordinator@example.com", "password123")

		url := fmt.Sprintf(enrollmentStatusURL, programID, participantID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			map[string]any{"new_status": "completed"}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.MutationResponse
		require.NoError(t, httptest.DecodeBody(w, &res))
		require.Equal(t, "enrollment_status_change", res.Kind)
		require.NotNil(t, res.Reference)
		require.Equal(t, programID, *res.Reference)
		require.Equal(t, []uuid.UUID{participantID}, res.Recipients)

		var status string
		err := s.DB.QueryRow(context.Background(),
			"SELECT status FROM program_enrollments WHERE program_id = $1 AND participant_id = $2",
			programID, participantID).Scan(&status)
		require.NoError(t, err)
		require.Equal(t, "completed", status)

		enrolled, completed := s.programCounters(t, programID)
		require.Equal(t, int32(1), enrolled)
		require.Equal(t, int32(1), completed)
	})

	s.Run("Normal case: dropping an enrolled participant decrements enrolled", func() {
		t := s.T()

		coordinatorID := dbtest.CreateTestUser(t, s.DB, "coordinator@example.com", string(user.RoleCoordinator))
		programID := dbtest.CreateTestProgram(t, s.DB, "Winter Relief 2025", coordinatorID)
		participantID := dbtest.CreateTestParticipant(t, s.DB, "Amina Yusuf")
		dbtest.EnrollParticipant(t, s.DB, programID, participantID, "enrolled")

		token := authtest.LoginUser(t, s.Router, "coordinator@example.com", "password123")

		url := fmt.Sprintf(enrollmentStatusURL, programID, participantID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			map[string]any{"new_status": "dropped-out"}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		enrolled, completed := s.programCounters(t, programID)
		require.Equal(t, int32(0), enrolled)
		require.Equal(t, int32(0), completed)
	})

	s.Run("Error case: transition to the current status is rejected", func() {
		t := s.T()

		coordinatorID := dbtest.CreateTestUser(t, s.DB, "coordinator@example.com", string(user.RoleCoordinator))
		programID := dbtest.CreateTestProgram(t, s.DB, "Winter Relief 2025", coordinatorID)
		participantID := dbtest.CreateTestParticipant(t, s.DB, "Amina Yusuf")
		dbtest.EnrollParticipant(t, s.DB, programID, participantID, "active")

		token := authtest.LoginUser(t, s.Router, "coordinator@example.com", "password123")

		url := fmt.Sprintf(enrollmentStatusURL, programID, participantID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			map[string]any{"new_status": "active"}, token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Validation failed")

		enrolled, _ := s.programCounters(t, programID)
		require.Equal(t, int32(1), enrolled)
	})

	s.Run("Error case: a coordinator of another program is refused", func() {
		t := s.T()

		coordinatorID := dbtest.CreateTestUser(t, s.DB, "coordinator@example.com", string(user.RoleCoordinator))
		programID := dbtest.CreateTestProgram(t, s.DB, "Winter Relief 2025", coordinatorID)
		participantID := dbtest.CreateTestParticipant(t, s.DB, "Amina Yusuf")
		dbtest.EnrollParticipant(t, s.DB, programID, participantID, "active")

		dbtest.CreateTestUser(t, s.DB, "stranger@example.com", string(user.RoleCoordinator))
		strangerToken := authtest.LoginUser(t, s.Router, "stranger@example.com", "password123")

		url := fmt.Sprintf(enrollmentStatusURL, programID, participantID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			map[string]any{"new_status": "completed"}, strangerToken)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("Error case: participant not enrolled in the program", func() {
		t := s.T()

		coordinatorID := dbtest.CreateTestUser(t, s.DB, "coordinator@example.com", string(user.RoleCoordinator))
		programID := dbtest.CreateTestProgram(t, s.DB, "Winter Relief 2025", coordinatorID)
		participantID := dbtest.CreateTestParticipant(t, s.DB, "Amina Yusuf")

		token := authtest.LoginUser(t, s.Router, "coordinator@example.com", "password123")

		url := fmt.Sprintf(enrollmentStatusURL, programID, participantID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			map[string]any{"new_status": "completed"}, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Enrollment not found")
	})
}
