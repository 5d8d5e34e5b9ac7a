package visualization

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"slam-robot-sim/internal/common"
	"slam-robot-sim/internal/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGrid(t *testing.T) {
	cfg := simulation.Config{WorldSize: 4, MeasurementRange: simulation.NoRangeLimit}
	robot := simulation.NewRobot(cfg, nil)
	objects := []simulation.Object{
		robot,
		simulation.Landmark{ID: 0, Position: common.NewVector(0, 0)},
		simulation.Landmark{ID: 1, Position: common.NewVector(4, 4)},
		simulation.Landmark{ID: 2, Position: common.NewVector(2, 2)},
		simulation.Landmark{ID: 3, Position: common.NewVector(9, 1)},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderGrid(&buf, 4, 4, objects))

	want := "" +
		"+----+\n" +
		"|...x|\n" +
		"|..o.|\n" +
		"|....|\n" +
		"|x...|\n" +
		"+----+\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderGridFromRobotObjects(t *testing.T) {
	cfg := simulation.Config{WorldSize: 10, MeasurementRange: 5}
	robot := simulation.NewRobot(cfg, nil)

	var buf bytes.Buffer
	require.NoError(t, RenderGrid(&buf, 10, 10, robot.Objects()))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("o")))
	assert.Equal(t, 0, bytes.Count(buf.Bytes(), []byte("x")))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRenderGridErrors(t *testing.T) {
	assert.Error(t, RenderGrid(&bytes.Buffer{}, 0, 1, nil))
	assert.Error(t, RenderGrid(&bytes.Buffer{}, 10, 0, nil))
	assert.Error(t, RenderGrid(&bytes.Buffer{}, 10, MaxGridColumns+1, nil))
	assert.EqualError(t, RenderGrid(failingWriter{}, 2, 2, nil), "closed")
}

func TestGridColumns(t *testing.T) {
	tests := []struct {
		worldSize float64
		want      int
	}{
		{0, 1},
		{-3, 1},
		{0.5, 1},
		{10, 10},
		{10.2, 11},
		{100, MaxGridColumns},
		{1e300, MaxGridColumns},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GridColumns(tt.worldSize), "world size %v", tt.worldSize)
	}
}

func TestRenderGridScalesLargeWorlds(t *testing.T) {
	const worldSize = 100000.0
	cfg := simulation.Config{WorldSize: worldSize, MeasurementRange: simulation.NoRangeLimit}
	robot := simulation.NewRobot(cfg, nil)
	objects := []simulation.Object{
		robot,
		simulation.Landmark{ID: 0, Position: common.NewVector(0, 0)},
		simulation.Landmark{ID: 1, Position: common.NewVector(worldSize, worldSize)},
	}

	var buf bytes.Buffer
	cols := GridColumns(worldSize)
	require.NoError(t, RenderGrid(&buf, worldSize, cols, objects))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, MaxGridColumns+2)
	for _, line := range lines {
		assert.Len(t, line, MaxGridColumns+2)
	}
	assert.Equal(t, 'x', rune(lines[1][MaxGridColumns]), "far corner landmark")
	assert.Equal(t, 'x', rune(lines[MaxGridColumns][1]), "origin landmark")
	assert.Equal(t, 'o', rune(lines[1+MaxGridColumns/2-1][1+MaxGridColumns/2]), "robot at the centre")
}
