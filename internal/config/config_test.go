package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/definer/dialect"
)

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithFs(afero.NewMemMapFs()), WithDir("/work"), WithoutHome())
	require.NoError(t, err)
	assert.Equal(t, dialect.MySQL, cfg.Dialect)
	assert.Equal(t, 100*time.Millisecond, cfg.SlowThreshold)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.File)
}

func TestLoadPrecedence(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/work/.definer.yaml": `
dialect: postgres
host: db.internal
port: 5432
user: file
database: shop
slow_threshold: 1s
`,
		"/work/.env":       "DEFINER_USER=dotenv\nDEFINER_PASSWORD=secret\nDEFINER_DEBUG=true\n",
		"/work/.env.local": "DEFINER_PASSWORD=local\n",
	})
	t.Setenv("DEFINER_DATABASE", "shop_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("host", "", "")
	flags.Duration("slow-threshold", 0, "")
	require.NoError(t, flags.Parse([]string{"--host", "replica.internal"}))

	cfg, err := Load(WithFs(fs), WithDir("/work"), WithoutHome(), WithFlags(flags))
	require.NoError(t, err)
	assert.Equal(t, "/work/.definer.yaml", cfg.File)
	assert.Equal(t, dialect.Postgres, cfg.Dialect)
	assert.Equal(t, "replica.internal", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "dotenv", cfg.User)
	assert.Equal(t, "local", cfg.Password)
	assert.Equal(t, "shop_env", cfg.Database)
	assert.Equal(t, time.Second, cfg.SlowThreshold)
	assert.True(t, cfg.Debug)
	require.NoError(t, cfg.Validate())

	dsn, err := cfg.DataSource()
	require.NoError(t, err)
	assert.Equal(t, "host=replica.internal port=5432 user=dotenv password=local dbname=shop_env", dsn)
}

func TestLoadDatabaseURL(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/work/.env": "DATABASE_URL=root:pw@tcp(localhost:3306)/shop\n",
	})
	cfg, err := Load(WithFs(fs), WithDir("/work"), WithoutHome())
	require.NoError(t, err)
	assert.Equal(t, "root:pw@tcp(localhost:3306)/shop", cfg.DSN)

	dsn, err := cfg.DataSource()
	require.NoError(t, err)
	assert.Equal(t, cfg.DSN, dsn)
}

func TestLoadExplicitFile(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/etc/definer.yaml": "dialect: sqlite\ndatabase: app.db\n",
	})
	cfg, err := Load(WithFs(fs), WithDir("/work"), WithFile("/etc/definer.yaml"), WithoutHome())
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLite, cfg.Dialect)
	assert.Equal(t, "app.db", cfg.Database)

	_, err = Load(WithFs(fs), WithDir("/work"), WithFile("/etc/missing.yaml"), WithoutHome())
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		err  string
	}{
		{name: "mysql", cfg: Config{Dialect: dialect.MySQL, Database: "shop"}},
		{name: "sqlite_memory", cfg: Config{Dialect: dialect.SQLite}},
		{name: "dsn_only", cfg: Config{Dialect: dialect.Postgres, DSN: "postgres://localhost/shop"}},
		{name: "dialect", cfg: Config{Dialect: "oracle"}, err: `unsupported dialect "oracle"`},
		{name: "port", cfg: Config{Dialect: dialect.MySQL, Database: "x", Port: 70000}, err: "invalid port"},
		{name: "threshold", cfg: Config{Dialect: dialect.MySQL, Database: "x", SlowThreshold: -time.Second}, err: "negative slow threshold"},
		{name: "database", cfg: Config{Dialect: dialect.MySQL}, err: "either dsn or database"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.err == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.err)
		})
	}
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "", (&Config{Port: 3306}).Address())
	assert.Equal(t, "db", (&Config{Host: "db"}).Address())
	assert.Equal(t, "db:3306", (&Config{Host: "db", Port: 3306}).Address())
	assert.Equal(t, "db:3307", (&Config{Host: "db:3307", Port: 3306}).Address())
	assert.Equal(t, "[::1]:5432", (&Config{Host: "::1", Port: 5432}).Address())
}
