// Package postgres implements the store on pgx. Counters use single-statement
// upserts, the claim is a guarded update, and call-next locks the day's queue
// row so concurrent callers never hand out the same patient.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhijithgoodboi/petclinic/internal/models"
	"github.com/abhijithgoodboi/petclinic/internal/store"
)

type Store struct {
	pool           *pgxpool.Pool
	avgWaitMinutes int
}

type Options struct {
	AvgWaitMinutes int
}

func NewStore(pool *pgxpool.Pool, options Options) *Store {
	avg := options.AvgWaitMinutes
	if avg <= 0 {
		avg = store.DefaultAvgWaitMinutes
	}
	return &Store{pool: pool, avgWaitMinutes: avg}
}

// ---- emergency queue ----

func (s *Store) CreateCase(ctx context.Context, input store.CreateCaseInput) (models.EmergencyCase, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.EmergencyCase{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Serialize enqueues so two concurrent cases can't pick the same number.
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('emergency_queue'))`); err != nil {
		return models.EmergencyCase{}, err
	}
	var maxOpen sql.NullInt64
	row := tx.QueryRow(ctx, `
		SELECT MAX(queue_number) FROM emergency_cases
		WHERE status IN ($1, $2)
	`, models.CaseWaiting, models.CaseInTreatment)
	if err = row.Scan(&maxOpen); err != nil {
		return models.EmergencyCase{}, err
	}
	queueNumber := int(maxOpen.Int64) + 1

	reportedAt := input.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now().UTC()
	}
	c := models.EmergencyCase{
		CaseID:      uuid.NewString(),
		PetID:       input.PetID,
		OwnerID:     input.OwnerID,
		Severity:    input.Severity,
		Symptoms:    input.Symptoms,
		TriageNotes: input.TriageNotes,
		AssignedVet: input.AssignedVet,
		Status:      models.CaseWaiting,
		QueueNumber: queueNumber,
		ReportedAt:  reportedAt,
		UpdatedAt:   reportedAt,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO emergency_cases (
			case_id, pet_id, owner_id, severity, symptoms, triage_notes,
			assigned_vet, status, queue_number, reported_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, c.CaseID, c.PetID, c.OwnerID, c.Severity, c.Symptoms, c.TriageNotes,
		c.AssignedVet, c.Status, c.QueueNumber, c.ReportedAt, c.UpdatedAt)
	if err != nil {
		return models.EmergencyCase{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.EmergencyCase{}, err
	}
	return c, nil
}

const caseColumns = `case_id, pet_id, owner_id, severity, symptoms, triage_notes,
	assigned_vet, status, queue_number, reported_at, updated_at`

func scanCase(row pgx.Row) (models.EmergencyCase, error) {
	var c models.EmergencyCase
	var notes sql.NullString
	var vet sql.NullString
	err := row.Scan(&c.CaseID, &c.PetID, &c.OwnerID, &c.Severity, &c.Symptoms, &notes,
		&vet, &c.Status, &c.QueueNumber, &c.ReportedAt, &c.UpdatedAt)
	if err != nil {
		return models.EmergencyCase{}, err
	}
	c.TriageNotes = notes.String
	if vet.Valid {
		c.AssignedVet = &vet.String
	}
	return c, nil
}

func (s *Store) GetCase(ctx context.Context, caseID string) (models.EmergencyCase, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM emergency_cases WHERE case_id = $1`, caseID)
	c, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.EmergencyCase{}, false, nil
	}
	if err != nil {
		return models.EmergencyCase{}, false, err
	}
	return c, true, nil
}

func (s *Store) ActiveCases(ctx context.Context) ([]models.EmergencyCase, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+caseColumns+` FROM emergency_cases
		WHERE status IN ($1, $2)
		ORDER BY CASE severity
			WHEN 'CRITICAL' THEN 0
			WHEN 'SEVERE' THEN 1
			WHEN 'MODERATE' THEN 2
			WHEN 'MILD' THEN 3
			ELSE 4 END,
			reported_at
	`, models.CaseWaiting, models.CaseInTreatment)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []models.EmergencyCase
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// ClaimCase updates only when the case is unassigned or already held by the
// same vet; a zero-row update distinguishes conflict from absence.
func (s *Store) ClaimCase(ctx context.Context, caseID, vetID string) (models.EmergencyCase, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE emergency_cases
		SET assigned_vet = $2, status = $3, updated_at = NOW()
		WHERE case_id = $1
		  AND status IN ($4, $5)
		  AND (assigned_vet IS NULL OR assigned_vet = $2)
		RETURNING `+caseColumns+`
	`, caseID, vetID, models.CaseInTreatment, models.CaseWaiting, models.CaseInTreatment)

	c, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, found, getErr := s.GetCase(ctx, caseID)
		if getErr != nil {
			return models.EmergencyCase{}, getErr
		}
		switch {
		case !found:
			return models.EmergencyCase{}, store.ErrCaseNotFound
		case !existing.Active():
			return models.EmergencyCase{}, store.ErrCaseClosed
		default:
			return models.EmergencyCase{}, store.ErrAlreadyAssigned
		}
	}
	if err != nil {
		return models.EmergencyCase{}, err
	}
	return c, nil
}

func (s *Store) ResolveCase(ctx context.Context, caseID string) (models.EmergencyCase, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE emergency_cases
		SET status = $2, updated_at = NOW()
		WHERE case_id = $1
		RETURNING `+caseColumns+`
	`, caseID, models.CaseResolved)

	c, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.EmergencyCase{}, store.ErrCaseNotFound
	}
	if err != nil {
		return models.EmergencyCase{}, err
	}
	return c, nil
}

// ---- appointments ----

const slotColumns = `slot_id, pet_id, owner_id, vet_id, slot_date, slot_time,
	duration_min, status, priority, reason, token_number, check_in_time, created_at, updated_at`

func scanSlot(row pgx.Row) (models.AppointmentSlot, error) {
	var slot models.AppointmentSlot
	var vet sql.NullString
	var token sql.NullInt64
	var checkIn sql.NullTime
	err := row.Scan(&slot.SlotID, &slot.PetID, &slot.OwnerID, &vet, &slot.Date, &slot.Time,
		&slot.DurationMin, &slot.Status, &slot.Priority, &slot.Reason, &token, &checkIn,
		&slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	if vet.Valid {
		slot.VetID = &vet.String
	}
	if token.Valid {
		value := int(token.Int64)
		slot.TokenNumber = &value
	}
	if checkIn.Valid {
		slot.CheckInTime = &checkIn.Time
	}
	return slot, nil
}

func (s *Store) CreateAppointment(ctx context.Context, input store.CreateAppointmentInput) (models.AppointmentSlot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if input.VetID != nil {
		var clash int
		row := tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM appointments
			WHERE vet_id = $1 AND slot_date = $2 AND slot_time = $3
			  AND status IN ($4, $5, $6)
		`, *input.VetID, input.Date, input.Time,
			models.SlotScheduled, models.SlotConfirmed, models.SlotInProgress)
		if err = row.Scan(&clash); err != nil {
			return models.AppointmentSlot{}, err
		}
		if clash > 0 {
			err = store.ErrSlotTaken
			return models.AppointmentSlot{}, err
		}
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	duration := input.DurationMin
	if duration <= 0 {
		duration = 30
	}
	slot := models.AppointmentSlot{
		SlotID:      uuid.NewString(),
		PetID:       input.PetID,
		OwnerID:     input.OwnerID,
		VetID:       input.VetID,
		Date:        input.Date,
		Time:        input.Time,
		DurationMin: duration,
		Status:      models.SlotScheduled,
		Priority:    input.Priority,
		Reason:      input.Reason,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO appointments (
			slot_id, pet_id, owner_id, vet_id, slot_date, slot_time,
			duration_min, status, priority, reason, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, slot.SlotID, slot.PetID, slot.OwnerID, slot.VetID, slot.Date, slot.Time,
		slot.DurationMin, slot.Status, slot.Priority, slot.Reason, slot.CreatedAt, slot.UpdatedAt)
	if err != nil {
		return models.AppointmentSlot{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.AppointmentSlot{}, err
	}
	return slot, nil
}

func (s *Store) GetAppointment(ctx context.Context, slotID string) (models.AppointmentSlot, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+slotColumns+` FROM appointments WHERE slot_id = $1`, slotID)
	slot, err := scanSlot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.AppointmentSlot{}, false, nil
	}
	if err != nil {
		return models.AppointmentSlot{}, false, err
	}
	return slot, true, nil
}

func (s *Store) ConfirmAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	return s.updateStatus(ctx, slotID, "confirm", models.SlotConfirmed, at)
}

func (s *Store) CancelAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	slot, err := s.updateStatus(ctx, slotID, "cancel", models.SlotCancelled, at)
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	// A cancelled in-progress slot must free its vet like a completed one.
	if err := s.releaseDoctor(ctx, slot, at); err != nil {
		return models.AppointmentSlot{}, err
	}
	return slot, nil
}

func (s *Store) NoShowAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	slot, err := s.updateStatus(ctx, slotID, "no_show", models.SlotNoShow, at)
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	if err := s.releaseDoctor(ctx, slot, at); err != nil {
		return models.AppointmentSlot{}, err
	}
	return slot, nil
}

func (s *Store) CompleteAppointment(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	slot, err := s.updateStatus(ctx, slotID, "complete", models.SlotCompleted, at)
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	if err := s.releaseDoctor(ctx, slot, at); err != nil {
		return models.AppointmentSlot{}, err
	}
	return slot, nil
}

// releaseDoctor clears the vet's busy marker when this slot is the one it
// points at; any other state is left alone.
func (s *Store) releaseDoctor(ctx context.Context, slot models.AppointmentSlot, at time.Time) error {
	if slot.VetID == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE doctor_status
		SET status = $2, current_appointment = NULL, updated_at = $3
		WHERE vet_id = $1 AND current_appointment = $4
	`, *slot.VetID, models.DoctorAvailable, at, slot.SlotID)
	return err
}

func (s *Store) updateStatus(ctx context.Context, slotID, action, toStatus string, at time.Time) (models.AppointmentSlot, error) {
	allowed, ok := store.TransitionSources(action)
	if !ok {
		return models.AppointmentSlot{}, fmt.Errorf("unknown appointment action %q", action)
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2, updated_at = $3
		WHERE slot_id = $1 AND status = ANY($4)
		RETURNING `+slotColumns+`
	`, slotID, toStatus, at, allowed)

	slot, err := scanSlot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		_, found, getErr := s.GetAppointment(ctx, slotID)
		if getErr != nil {
			return models.AppointmentSlot{}, getErr
		}
		if !found {
			return models.AppointmentSlot{}, store.ErrSlotNotFound
		}
		return models.AppointmentSlot{}, store.ErrInvalidState
	}
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	return slot, nil
}

// CheckIn bumps the day's token counter and stamps the slot in one
// transaction; a slot that already holds a token is returned as-is.
func (s *Store) CheckIn(ctx context.Context, slotID string, at time.Time) (models.AppointmentSlot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `SELECT `+slotColumns+` FROM appointments WHERE slot_id = $1 FOR UPDATE`, slotID)
	slot, err := scanSlot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		err = store.ErrSlotNotFound
		return models.AppointmentSlot{}, err
	}
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	if slot.TokenNumber != nil {
		if err = tx.Commit(ctx); err != nil {
			return models.AppointmentSlot{}, err
		}
		return slot, nil
	}
	if slot.Status != models.SlotConfirmed {
		err = store.ErrInvalidState
		return models.AppointmentSlot{}, err
	}

	var token int
	row = tx.QueryRow(ctx, `
		INSERT INTO daily_queues (slot_date, current_token, last_called_token, avg_wait_minutes, updated_at)
		VALUES ($1, 1, 0, $2, $3)
		ON CONFLICT (slot_date)
		DO UPDATE SET current_token = daily_queues.current_token + 1, updated_at = $3
		RETURNING current_token
	`, slot.Date, s.avgWaitMinutes, at)
	if err = row.Scan(&token); err != nil {
		return models.AppointmentSlot{}, err
	}

	row = tx.QueryRow(ctx, `
		UPDATE appointments
		SET token_number = $2, check_in_time = $3, updated_at = $3
		WHERE slot_id = $1
		RETURNING `+slotColumns+`
	`, slotID, token, at)
	if slot, err = scanSlot(row); err != nil {
		return models.AppointmentSlot{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.AppointmentSlot{}, err
	}
	return slot, nil
}

// CallNext locks the day's queue row, then serves the lowest uncalled token.
func (s *Store) CallNext(ctx context.Context, date, vetID string, at time.Time) (models.AppointmentSlot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.AppointmentSlot{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var lastCalled int
	row := tx.QueryRow(ctx, `
		INSERT INTO daily_queues (slot_date, current_token, last_called_token, avg_wait_minutes, updated_at)
		VALUES ($1, 0, 0, $2, $3)
		ON CONFLICT (slot_date) DO UPDATE SET slot_date = daily_queues.slot_date
		RETURNING last_called_token
	`, date, s.avgWaitMinutes, at)
	if err = row.Scan(&lastCalled); err != nil {
		return models.AppointmentSlot{}, err
	}

	row = tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = $4, updated_at = $5
		WHERE slot_id = (
			SELECT slot_id FROM appointments
			WHERE slot_date = $1 AND status = $2 AND token_number > $3
			ORDER BY token_number
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+slotColumns+`
	`, date, models.SlotConfirmed, lastCalled, models.SlotInProgress, at)

	slot, err := scanSlot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		err = store.ErrNoAppointment
		return models.AppointmentSlot{}, err
	}
	if err != nil {
		return models.AppointmentSlot{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE daily_queues SET last_called_token = $2, updated_at = $3 WHERE slot_date = $1
	`, date, *slot.TokenNumber, at)
	if err != nil {
		return models.AppointmentSlot{}, err
	}

	if vetID != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO doctor_status (vet_id, status, current_appointment, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (vet_id)
			DO UPDATE SET status = $2, current_appointment = $3, updated_at = $4
		`, vetID, models.DoctorBusy, slot.SlotID, at)
		if err != nil {
			return models.AppointmentSlot{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return models.AppointmentSlot{}, err
	}
	return slot, nil
}

func (s *Store) QueueState(ctx context.Context, date string) (models.DailyQueueState, error) {
	state := models.DailyQueueState{Date: date, AvgWaitMinutes: s.avgWaitMinutes}
	row := s.pool.QueryRow(ctx, `
		SELECT current_token, last_called_token, avg_wait_minutes, updated_at
		FROM daily_queues WHERE slot_date = $1
	`, date)
	err := row.Scan(&state.CurrentToken, &state.LastCalledToken, &state.AvgWaitMinutes, &state.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return state, nil
	}
	if err != nil {
		return models.DailyQueueState{}, err
	}
	return state, nil
}

func (s *Store) QueueSnapshot(ctx context.Context, date string) ([]models.AppointmentSlot, models.DailyQueueState, error) {
	state, err := s.QueueState(ctx, date)
	if err != nil {
		return nil, models.DailyQueueState{}, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+slotColumns+` FROM appointments
		WHERE slot_date = $1
		ORDER BY token_number NULLS LAST, slot_time, created_at
	`, date)
	if err != nil {
		return nil, models.DailyQueueState{}, err
	}
	defer rows.Close()

	var slots []models.AppointmentSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, models.DailyQueueState{}, err
		}
		slots = append(slots, slot)
	}
	return slots, state, rows.Err()
}

func (s *Store) AutoNoShow(ctx context.Context, before time.Time, batchSize int) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE slot_id IN (
			SELECT slot_id FROM appointments
			WHERE status IN ($3, $4)
			  AND token_number IS NULL
			  AND (slot_date || ' ' || slot_time)::timestamp < $5
			ORDER BY slot_date, slot_time
			LIMIT $6
		)
	`, models.SlotNoShow, before, models.SlotScheduled, models.SlotConfirmed, before, batchSize)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ---- doctors ----

func (s *Store) GetDoctorStatus(ctx context.Context, vetID string) (models.DoctorStatus, bool, error) {
	var status models.DoctorStatus
	var message, leaveStart, leaveEnd, current sql.NullString
	row := s.pool.QueryRow(ctx, `
		SELECT vet_id, status, status_message, leave_start, leave_end, current_appointment, updated_at
		FROM doctor_status WHERE vet_id = $1
	`, vetID)
	err := row.Scan(&status.VetID, &status.Status, &message, &leaveStart, &leaveEnd, &current, &status.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DoctorStatus{}, false, nil
	}
	if err != nil {
		return models.DoctorStatus{}, false, err
	}
	status.StatusMessage = message.String
	status.LeaveStart = leaveStart.String
	status.LeaveEnd = leaveEnd.String
	if current.Valid {
		status.CurrentAppointment = &current.String
	}
	return status, true, nil
}

func (s *Store) SetDoctorStatus(ctx context.Context, input store.SetDoctorStatusInput) (models.DoctorStatus, error) {
	if input.Status == models.DoctorOnLeave && (input.LeaveStart == "" || input.LeaveEnd == "") {
		return models.DoctorStatus{}, store.ErrLeaveRangeRequired
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO doctor_status (vet_id, status, status_message, leave_start, leave_end, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
		ON CONFLICT (vet_id)
		DO UPDATE SET status = $2, status_message = $3,
			leave_start = NULLIF($4, ''), leave_end = NULLIF($5, ''), updated_at = $6
	`, input.VetID, input.Status, input.StatusMessage, input.LeaveStart, input.LeaveEnd, input.UpdatedAt)
	if err != nil {
		return models.DoctorStatus{}, err
	}

	status, _, err := s.GetDoctorStatus(ctx, input.VetID)
	return status, err
}

func (s *Store) ListAvailability(ctx context.Context, vetID string) ([]models.DoctorAvailability, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT rule_id, vet_id, weekday, rule_date, start_time, end_time, is_available
		FROM doctor_availability
		WHERE vet_id = $1
		ORDER BY rule_date NULLS LAST, weekday, start_time
	`, vetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.DoctorAvailability
	for rows.Next() {
		var rule models.DoctorAvailability
		var weekday sql.NullInt64
		var date sql.NullString
		if err := rows.Scan(&rule.RuleID, &rule.VetID, &weekday, &date,
			&rule.StartTime, &rule.EndTime, &rule.IsAvailable); err != nil {
			return nil, err
		}
		if weekday.Valid {
			value := int(weekday.Int64)
			rule.Weekday = &value
		}
		rule.Date = date.String
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (s *Store) PutAvailability(ctx context.Context, rule models.DoctorAvailability) (models.DoctorAvailability, error) {
	if rule.RuleID == "" {
		rule.RuleID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO doctor_availability (rule_id, vet_id, weekday, rule_date, start_time, end_time, is_available)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		ON CONFLICT (rule_id)
		DO UPDATE SET weekday = $3, rule_date = NULLIF($4, ''),
			start_time = $5, end_time = $6, is_available = $7
	`, rule.RuleID, rule.VetID, rule.Weekday, rule.Date, rule.StartTime, rule.EndTime, rule.IsAvailable)
	if err != nil {
		return models.DoctorAvailability{}, err
	}
	return rule, nil
}
