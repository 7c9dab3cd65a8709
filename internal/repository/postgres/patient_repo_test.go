package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/docbuddy/docbuddy/internal/repository/postgres"
	"github.com/docbuddy/docbuddy/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientRepository_OwnerScoping(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPatientRepository(testDB.DB)
	ctx := context.Background()

	doctorA, _ := testutil.NewDoctorBuilder().Build(t, testDB.DB)
	doctorB, _ := testutil.NewDoctorBuilder().Build(t, testDB.DB)

	patientOfB := testutil.NewPatientBuilder(doctorB.ID).WithName("Belongs To B").Build(t, testDB.DB)

	t.Run("get with wrong owner returns not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, doctorA.ID, patientOfB.ID)
		assert.Error(t, err)
	})

	t.Run("update with wrong owner affects zero rows", func(t *testing.T) {
		tampered := *patientOfB
		tampered.Name = "Stolen"
		tampered.UpdatedAt = time.Now()

		affected, err := repo.Update(ctx, doctorA.ID, &tampered)
		require.NoError(t, err)
		assert.Zero(t, affected)

		// Row is untouched for its real owner
		got, err := repo.GetByID(ctx, doctorB.ID, patientOfB.ID)
		require.NoError(t, err)
		assert.Equal(t, "Belongs To B", got.Name)
	})

	t.Run("delete with wrong owner affects zero rows", func(t *testing.T) {
		affected, err := repo.Delete(ctx, doctorA.ID, patientOfB.ID)
		require.NoError(t, err)
		assert.Zero(t, affected)

		_, err = repo.GetByID(ctx, doctorB.ID, patientOfB.ID)
		require.NoError(t, err)
	})

	t.Run("list never crosses owners", func(t *testing.T) {
		testutil.NewPatientBuilder(doctorA.ID).WithName("Belongs To A").Build(t, testDB.DB)

		patients, err := repo.List(ctx, doctorA.ID, 9)
		require.NoError(t, err)
		require.Len(t, patients, 1)
		assert.Equal(t, doctorA.ID, patients[0].DoctorID)
	})
}

func TestPatientRepository_List(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPatientRepository(testDB.DB)
	ctx := context.Background()

	doctor, _ := testutil.NewDoctorBuilder().Build(t, testDB.DB)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		testutil.NewPatientBuilder(doctor.ID).
			WithUpdatedAt(base.Add(time.Duration(i) * time.Minute)).
			Build(t, testDB.DB)
	}

	t.Run("bounded by limit", func(t *testing.T) {
		patients, err := repo.List(ctx, doctor.ID, 9)
		require.NoError(t, err)
		assert.Len(t, patients, 9)
	})

	t.Run("ordered by updated_at descending", func(t *testing.T) {
		patients, err := repo.List(ctx, doctor.ID, 9)
		require.NoError(t, err)
		for i := 1; i < len(patients); i++ {
			assert.False(t, patients[i].UpdatedAt.After(patients[i-1].UpdatedAt),
				"patients must be ordered newest first")
		}
	})
}

func TestPatientRepository_Search(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPatientRepository(testDB.DB)
	ctx := context.Background()

	doctor, _ := testutil.NewDoctorBuilder().Build(t, testDB.DB)

	testutil.NewPatientBuilder(doctor.ID).
		WithName("Jane Roberts").
		WithWhatsAppNumber("+15551230001").
		Build(t, testDB.DB)
	testutil.NewPatientBuilder(doctor.ID).
		WithName("John Smith").
		WithWhatsAppNumber("+15559870002").
		Build(t, testDB.DB)

	tests := []struct {
		name      string
		filter    string
		phone     string
		wantCount int
	}{
		{
			name:      "substring name match",
			filter:    "Robert",
			wantCount: 1,
		},
		{
			name:      "substring phone match",
			filter:    "",
			phone:     "555123",
			wantCount: 1,
		},
		{
			name:      "both filters empty returns all",
			wantCount: 2,
		},
		{
			name:      "no match",
			filter:    "zzz",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patients, err := repo.Search(ctx, doctor.ID, tt.filter, tt.phone, 9)
			require.NoError(t, err)
			assert.Len(t, patients, tt.wantCount)
		})
	}
}

func TestPatientRepository_SearchBindsFilterText(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPatientRepository(testDB.DB)
	ctx := context.Background()

	doctor, _ := testutil.NewDoctorBuilder().Build(t, testDB.DB)
	testutil.NewPatientBuilder(doctor.ID).WithName("Survivor").Build(t, testDB.DB)

	// Hostile filter text must travel as data, never as query text.
	patients, err := repo.Search(ctx, doctor.ID, "Robert'); DROP TABLE patients;--", "", 9)
	require.NoError(t, err)
	assert.Empty(t, patients)

	// Table and rows are intact.
	patients, err = repo.List(ctx, doctor.ID, 9)
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}

func TestPatientRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPatientRepository(testDB.DB)
	ctx := context.Background()

	doctor, _ := testutil.NewDoctorBuilder().Build(t, testDB.DB)
	patient := testutil.NewPatientBuilder(doctor.ID).WithAge(30).Build(t, testDB.DB)

	updated := *patient
	updated.Age = 31
	updated.UpdatedAt = time.Now().Add(time.Minute)

	affected, err := repo.Update(ctx, doctor.ID, &updated)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	got, err := repo.GetByID(ctx, doctor.ID, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 31, got.Age)
	assert.True(t, got.UpdatedAt.After(patient.UpdatedAt), "updated_at must advance")
}
