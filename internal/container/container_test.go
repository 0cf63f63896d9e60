package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paxboard/internal/config"
)

const titanicCSV = `PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare
1,0,3,"Braund, Mr. Owen Harris",male,22,1,0,A/5 21171,7.25
2,1,1,"Cumings, Mrs. John Bradley",female,38,1,0,PC 17599,71.2833
3,1,3,"Heikkinen, Miss. Laina",female,,0,0,STON/O2. 3101282,7.925
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "titanic.csv")
	require.NoError(t, os.WriteFile(path, []byte(titanicCSV), 0o644))

	return &config.Config{
		Data: config.DataConfig{
			Source:        path,
			Watch:         true,
			HTTPTimeout:   5 * time.Second,
			PreviewRows:   5,
			HistogramBins: 10,
		},
		Server:   config.ServerConfig{Port: "8080", GinMode: "test"},
		LogLevel: "ERROR",
	}
}

func TestNewWiresLocalSource(t *testing.T) {
	c, err := New(testConfig(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Warm(ctx))
	svc := c.Service()
	assert.Same(t, svc, c.Service())
	assert.False(t, svc.ArchiveEnabled())

	view, err := svc.Filter(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Table.Len())

	require.NoError(t, c.OpenDatabase(ctx))
	assert.Nil(t, c.DB)

	require.NoError(t, c.StartBackground())
	assert.NotNil(t, c.Watcher)
	assert.Nil(t, c.Refresher)
	require.NoError(t, c.Shutdown(ctx))
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestWarmReportsMissingSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Source = filepath.Join(t.TempDir(), "missing.csv")

	c, err := New(cfg)
	require.NoError(t, err)
	assert.Error(t, c.Warm(context.Background()))
}

func TestInitWithDatabaseEnablesArchive(t *testing.T) {
	c, err := New(testConfig(t))
	require.NoError(t, err)
	assert.Error(t, c.InitWithDatabase(context.Background(), nil))

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS report_snapshots").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("idx_report_snapshots_created_at").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("idx_report_snapshots_cohort").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	require.NoError(t, c.InitWithDatabase(context.Background(), sqlx.NewDb(db, "sqlmock")))
	assert.True(t, c.Service().ArchiveEnabled())

	require.NoError(t, c.Shutdown(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
