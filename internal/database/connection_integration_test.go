// connection_integration_test.go
//
// classnote: a class timetable, homework and items tracker for students
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of classnote.
// classnote is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// classnote is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with classnote.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package database_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/localnerve/classnote/internal/config"
	"github.com/localnerve/classnote/internal/database"
	"github.com/localnerve/classnote/internal/models"
	"github.com/localnerve/classnote/internal/services"
	"github.com/localnerve/classnote/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// startMariaDB runs DB_IMAGE (a mariadb or mysql image) and returns a config pointing at it
func startMariaDB(t *testing.T) *config.Config {
	t.Helper()

	image := os.Getenv("DB_IMAGE")
	if testing.Short() || image == "" {
		t.Skip("set DB_IMAGE and run without -short for the database integration test")
	}

	ctx := context.Background()
	tcpPort, err := nat.NewPort("tcp", "3306")
	require.NoError(t, err)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": "root",
				"MARIADB_DATABASE":      "classnote",
				"MARIADB_USER":          "classnote",
				"MARIADB_PASSWORD":      "classnote",
				"MYSQL_ROOT_PASSWORD":   "root",
				"MYSQL_DATABASE":        "classnote",
				"MYSQL_USER":            "classnote",
				"MYSQL_PASSWORD":        "classnote",
			},
			WaitingFor: wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate MariaDB: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, tcpPort)
	require.NoError(t, err)

	return &config.Config{
		DBType:            "mariadb",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "classnote",
		DBUser:            "classnote",
		DBPassword:        "classnote",
		DBConnectionLimit: 10,
	}
}

func connect(t *testing.T, cfg *config.Config) *services.GormStore {
	t.Helper()

	var err error

	// The server may accept connections before the user grants are in place
	deadline := time.Now().Add(30 * time.Second)
	for {
		conn, connErr := database.Connect(cfg, zap.NewNop())
		if connErr == nil {
			if sqlDB, dbErr := conn.DB(); dbErr == nil && sqlDB.Ping() == nil {
				require.NoError(t, database.AutoMigrate(conn))
				t.Cleanup(func() { _ = database.Close(conn) })
				return services.NewGormStore(conn, zap.NewNop())
			}
			_ = database.Close(conn)
		}
		err = connErr
		if time.Now().After(deadline) {
			require.NoError(t, err, "database never became ready")
			t.Fatal("database never became ready")
		}
		time.Sleep(time.Second)
	}
}

func TestMariaDBDocumentStore(t *testing.T) {
	cfg := startMariaDB(t)
	store := connect(t, cfg)
	ctx := context.Background()

	v, err := store.MergeWrite(ctx, services.CollectionClasses, "3", nil, []services.SectionInput{
		{Section: "timetable", Properties: map[string]interface{}{
			"月": models.DayEntry{Periods: []string{"国語", "算数"}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	stale := uint64(0)
	_, err = store.FullWrite(ctx, services.CollectionClasses, "3", &stale, []services.SectionInput{
		{Section: "homework", Properties: map[string]interface{}{}},
	})
	assert.ErrorIs(t, err, types.ErrVersion)

	tt, err := services.NewScheduleRepository(store, "3", nil, zap.NewNop()).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"国語", "算数"}, tt.Periods(models.Monday))
}

// Row locking serialises concurrent merge writes so every addition survives
func TestMariaDBConcurrentMergeWrites(t *testing.T) {
	cfg := startMariaDB(t)
	store := connect(t, cfg)
	ctx := context.Background()

	// Create the class document up front so writers only contend on the row lock
	_, err := store.MergeWrite(ctx, services.CollectionClasses, "5", nil, []services.SectionInput{
		{Section: "homework", Properties: map[string]interface{}{}},
	})
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := services.NewTaskListRepository(store, "5", services.TaskListOptions{}, zap.NewNop())
			_, err := r.Add(ctx, models.KindHomework, models.TaskInput{Title: "concurrent"}, models.Identity{DisplayName: "t"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	got, err := services.NewTaskListRepository(store, "5", services.TaskListOptions{}, zap.NewNop()).Get(ctx, models.KindHomework)
	require.NoError(t, err)
	assert.Len(t, got, writers)
}
