package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/pkg/model"
)

// setupTestDB creates a PostgreSQL testcontainer and returns the connection pool
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("saglik_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	runMigrations(t, pool)

	cleanup := func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return pool, cleanup
}

// runMigrations runs the database migrations
func runMigrations(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL DEFAULT '',
			user_type VARCHAR(50) NOT NULL DEFAULT 'registered',
			social_provider VARCHAR(50),
			social_subject VARCHAR(255),
			photo_path VARCHAR(500),
			language VARCHAR(10) NOT NULL DEFAULT 'tr',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS password_reset_codes (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			code VARCHAR(20) NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS health_profiles (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			birth_date DATE,
			gender VARCHAR(50) NOT NULL DEFAULT '',
			important_diseases TEXT NOT NULL DEFAULT '',
			medications TEXT NOT NULL DEFAULT '',
			had_surgery BOOLEAN NOT NULL DEFAULT false,
			surgeries TEXT NOT NULL DEFAULT '',
			surgery_detail TEXT NOT NULL DEFAULT '',
			height VARCHAR(20) NOT NULL DEFAULT '',
			weight VARCHAR(20) NOT NULL DEFAULT '',
			blood_type VARCHAR(10) NOT NULL DEFAULT '',
			allergies TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS onboarding_sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			current_step INTEGER NOT NULL DEFAULT 0,
			answers JSONB NOT NULL DEFAULT '{}',
			status VARCHAR(50) NOT NULL,
			started_at TIMESTAMP NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS medications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			dosage VARCHAR(255) NOT NULL,
			frequency VARCHAR(255) NOT NULL,
			times TEXT[] NOT NULL DEFAULT '{}',
			start_date DATE NOT NULL,
			end_date DATE,
			notes TEXT,
			color VARCHAR(50) NOT NULL DEFAULT '',
			icon VARCHAR(50) NOT NULL DEFAULT '',
			slot_count INTEGER NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS reminders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			medication_id UUID NOT NULL REFERENCES medications(id) ON DELETE CASCADE,
			medication_name VARCHAR(255) NOT NULL,
			date VARCHAR(10) NOT NULL,
			time VARCHAR(5) NOT NULL,
			slot_index INTEGER NOT NULL,
			taken BOOLEAN NOT NULL DEFAULT false,
			taken_at TIMESTAMP,
			skipped BOOLEAN NOT NULL DEFAULT false,
			skipped_reason TEXT,
			UNIQUE (medication_id, date, slot_index)
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			specialty VARCHAR(100) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL,
			content TEXT NOT NULL,
			image_path VARCHAR(500),
			analysis JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			is_premium BOOLEAN NOT NULL DEFAULT false,
			plan VARCHAR(50) NOT NULL DEFAULT 'free',
			trial_end_date TIMESTAMP,
			daily_message_count INTEGER NOT NULL DEFAULT 0,
			daily_message_limit INTEGER NOT NULL DEFAULT 5,
			last_reset_date VARCHAR(10) NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS emergency_contacts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL,
			relation VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS emergency_info (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			blood_type VARCHAR(10) NOT NULL DEFAULT '',
			allergies TEXT NOT NULL DEFAULT '',
			conditions TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS sos_events (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			event_type VARCHAR(50) NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			number VARCHAR(50),
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			operation_type VARCHAR(50) NOT NULL,
			resource_type VARCHAR(100) NOT NULL,
			resource_id VARCHAR(255),
			timestamp TIMESTAMP NOT NULL DEFAULT NOW(),
			ip_address VARCHAR(100),
			user_agent TEXT,
			additional_data JSONB
		)`,
	}

	for _, migration := range migrations {
		_, err := pool.Exec(ctx, migration)
		require.NoError(t, err)
	}
}

// createTestUser creates a test user and returns the user ID
func createTestUser(t *testing.T, pool *pgxpool.Pool) string {
	ctx := context.Background()
	userID := uuid.New().String()

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, name, email) VALUES ($1, $2, $3)`,
		userID, "Test User", fmt.Sprintf("test-%s@example.com", userID))
	require.NoError(t, err)

	return userID
}

func createTestMedication(t *testing.T, pool *pgxpool.Pool, repo *MedicationRepository, userID string, times []string) *model.Medication {
	ctx := context.Background()
	med := &model.Medication{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      "Test Med",
		Dosage:    "100mg",
		Frequency: fmt.Sprintf("%dx", len(times)),
		Times:     times,
		StartDate: time.Now(),
		SlotCount: len(times),
		Active:    true,
	}
	require.NoError(t, repo.Create(ctx, med))
	return med
}

func TestProperty_MedicationCRUDPreservesIDAndSlotCount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger, _ := zap.NewDevelopment()
	repo := NewMedicationRepository(pool, logger)

	userID := createTestUser(t, pool)

	properties := gopter.NewProperties(nil)

	properties.Property("medication ID and slot count survive an update", prop.ForAll(
		func(name, dosage string, slots int) bool {
			ctx := context.Background()

			times := make([]string, slots)
			for i := range times {
				times[i] = fmt.Sprintf("%02d:00", 8+i)
			}

			originalID := uuid.New().String()
			med := &model.Medication{
				ID:        originalID,
				UserID:    userID,
				Name:      name,
				Dosage:    dosage,
				Frequency: fmt.Sprintf("%dx", slots),
				Times:     times,
				StartDate: time.Now(),
				SlotCount: slots,
				Active:    true,
			}

			if err := repo.Create(ctx, med); err != nil {
				t.Logf("Failed to create medication: %v", err)
				return false
			}

			med.Dosage = dosage + " (updated)"
			if err := repo.Update(ctx, med); err != nil {
				t.Logf("Failed to update medication: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, originalID)
			if err != nil {
				t.Logf("Failed to retrieve medication: %v", err)
				return false
			}

			return retrieved.ID == originalID &&
				retrieved.SlotCount == slots &&
				len(retrieved.Times) == slots
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 && len(s) < 100 }),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 && len(s) < 100 }),
		gen.IntRange(1, 3),
	))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 50
	properties.TestingRun(t, params)
}

func TestReminderSnapshot_RegenerationPreservesMarks(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger, _ := zap.NewDevelopment()
	medRepo := NewMedicationRepository(pool, logger)
	remRepo := NewReminderRepository(pool, logger)

	ctx := context.Background()
	userID := createTestUser(t, pool)
	med := createTestMedication(t, pool, medRepo, userID, []string{"09:00", "21:00"})

	date := time.Now().Format("2006-01-02")
	snapshot := []model.Reminder{
		{ID: uuid.New().String(), UserID: userID, MedicationID: med.ID, MedicationName: med.Name, Date: date, Time: "09:00", SlotIndex: 0},
		{ID: uuid.New().String(), UserID: userID, MedicationID: med.ID, MedicationName: med.Name, Date: date, Time: "21:00", SlotIndex: 1},
	}
	require.NoError(t, remRepo.UpsertSnapshot(ctx, snapshot))

	reminders, err := remRepo.FindByUserAndDate(ctx, userID, date)
	require.NoError(t, err)
	require.Len(t, reminders, 2)

	require.NoError(t, remRepo.MarkTaken(ctx, reminders[0].ID, userID))

	// Regenerating the same snapshot must not clear the taken mark.
	require.NoError(t, remRepo.UpsertSnapshot(ctx, snapshot))

	reminders, err = remRepo.FindByUserAndDate(ctx, userID, date)
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.True(t, reminders[0].Taken)
	assert.False(t, reminders[1].Taken)
}

func TestReminderSnapshot_ShrinkRemovesExtraSlots(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger, _ := zap.NewDevelopment()
	medRepo := NewMedicationRepository(pool, logger)
	remRepo := NewReminderRepository(pool, logger)

	ctx := context.Background()
	userID := createTestUser(t, pool)
	med := createTestMedication(t, pool, medRepo, userID, []string{"08:00", "14:00", "20:00"})

	date := time.Now().Format("2006-01-02")
	snapshot := []model.Reminder{
		{ID: uuid.New().String(), UserID: userID, MedicationID: med.ID, MedicationName: med.Name, Date: date, Time: "08:00", SlotIndex: 0},
		{ID: uuid.New().String(), UserID: userID, MedicationID: med.ID, MedicationName: med.Name, Date: date, Time: "14:00", SlotIndex: 1},
		{ID: uuid.New().String(), UserID: userID, MedicationID: med.ID, MedicationName: med.Name, Date: date, Time: "20:00", SlotIndex: 2},
	}
	require.NoError(t, remRepo.UpsertSnapshot(ctx, snapshot))

	// Frequency dropped from 3x to 1x: slots 1 and 2 must go.
	require.NoError(t, remRepo.DeleteSlotsFrom(ctx, med.ID, date, 1))

	reminders, err := remRepo.FindByUserAndDate(ctx, userID, date)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, 0, reminders[0].SlotIndex)
}

func TestSubscription_DailyCounterResetsOncePerDay(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger, _ := zap.NewDevelopment()
	repo := NewSubscriptionRepository(pool, logger)

	ctx := context.Background()
	userID := createTestUser(t, pool)

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	today := time.Now().Format("2006-01-02")

	require.NoError(t, repo.Upsert(ctx, &model.Subscription{
		UserID:            userID,
		Plan:              "free",
		DailyMessageCount: 4,
		DailyMessageLimit: 5,
		LastResetDate:     yesterday,
	}))

	// First increment of a new day resets the counter to one.
	sub, err := repo.IncrementDailyCount(ctx, userID, today)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.DailyMessageCount)
	assert.Equal(t, today, sub.LastResetDate)

	// Further increments on the same day accumulate.
	sub, err = repo.IncrementDailyCount(ctx, userID, today)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.DailyMessageCount)

	sub, err = repo.IncrementDailyCount(ctx, userID, today)
	require.NoError(t, err)
	assert.Equal(t, 3, sub.DailyMessageCount)
}

func TestChatRepository_IdempotentMessageIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger, _ := zap.NewDevelopment()
	repo := NewChatRepository(pool, logger)

	ctx := context.Background()
	userID := createTestUser(t, pool)

	msgID := uuid.New().String()
	msg := &model.ChatMessage{
		ID:        msgID,
		UserID:    userID,
		Specialty: "cardiology",
		Role:      model.MessageRoleUser,
		Content:   "chest pain after exercise",
	}
	require.NoError(t, repo.Insert(ctx, msg))

	exists, err := repo.Exists(ctx, msgID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_SoftDeleteHidesAccount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger, _ := zap.NewDevelopment()
	repo := NewUserRepository(pool, logger)

	ctx := context.Background()
	userID := createTestUser(t, pool)

	user, err := repo.FindByID(ctx, userID)
	require.NoError(t, err)
	email := user.Email

	require.NoError(t, repo.SoftDelete(ctx, userID))

	_, err = repo.FindByID(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByEmail(ctx, email)
	assert.ErrorIs(t, err, ErrNotFound)
}
