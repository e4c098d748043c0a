package mincostflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_PrefersCheaperPath(t *testing.T) {
	g := NewGraph()
	g.AddNode("src", -2)
	g.AddNode("a", 0)
	g.AddNode("b", 0)
	g.AddNode("dst", 2)

	require.NoError(t, g.AddEdge("src", "a", 2, 1))
	require.NoError(t, g.AddEdge("src", "b", 2, 10))
	require.NoError(t, g.AddEdge("a", "dst", 2, 0))
	require.NoError(t, g.AddEdge("b", "dst", 2, 0))

	result, err := g.Solve()
	require.NoError(t, err)

	assert.Equal(t, 2.0, result.Cost)
	assert.Equal(t, 2, result.Flow("src", "a"))
	assert.Equal(t, 0, result.Flow("src", "b"))
}

func TestSolve_SplitsWhenCapacityForces(t *testing.T) {
	g := NewGraph()
	g.AddNode("src", -3)
	g.AddNode("a", 0)
	g.AddNode("b", 0)
	g.AddNode("dst", 3)

	require.NoError(t, g.AddEdge("src", "a", 2, 1))
	require.NoError(t, g.AddEdge("src", "b", 2, 5))
	require.NoError(t, g.AddEdge("a", "dst", 3, 0))
	require.NoError(t, g.AddEdge("b", "dst", 3, 0))

	result, err := g.Solve()
	require.NoError(t, err)

	// 2 units over the cheap arc, 1 unit forced over the expensive one
	assert.Equal(t, 7.0, result.Cost)
	assert.Equal(t, 2, result.Flow("src", "a"))
	assert.Equal(t, 1, result.Flow("src", "b"))
}

func TestSolve_IntermediateDemand(t *testing.T) {
	// mid must consume 1 unit even though routing around it is cheaper
	g := NewGraph()
	g.AddNode("src", -2)
	g.AddNode("mid", 1)
	g.AddNode("express", 0)
	g.AddNode("dst", 1)

	require.NoError(t, g.AddEdge("src", "mid", 2, 5))
	require.NoError(t, g.AddEdge("src", "express", 2, 0))
	require.NoError(t, g.AddEdge("express", "dst", 2, 0))

	result, err := g.Solve()
	require.NoError(t, err)

	assert.Equal(t, 5.0, result.Cost)
	assert.Equal(t, 1, result.Flow("src", "mid"))
	assert.Equal(t, 1, result.Flow("src", "express"))
}

func TestSolve_Infeasible(t *testing.T) {
	g := NewGraph()
	g.AddNode("src", -1)
	g.AddNode("dst", 2)

	require.NoError(t, g.AddEdge("src", "dst", 1, 0))

	_, err := g.Solve()
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestSolve_InfeasibleCapacity(t *testing.T) {
	g := NewGraph()
	g.AddNode("src", -3)
	g.AddNode("dst", 3)

	require.NoError(t, g.AddEdge("src", "dst", 1, 0))

	_, err := g.Solve()
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestAddEdge_UnknownNode(t *testing.T) {
	g := NewGraph()
	g.AddNode("src", 0)

	assert.Error(t, g.AddEdge("src", "missing", 1, 0))
	assert.Error(t, g.AddEdge("missing", "src", 1, 0))
}

func TestAddEdge_NegativeCapacity(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", 0)
	g.AddNode("b", 0)

	assert.Error(t, g.AddEdge("a", "b", -1, 0))
}

func TestOutflow(t *testing.T) {
	g := NewGraph()
	g.AddNode("src", -2)
	g.AddNode("a", 0)
	g.AddNode("b", 0)
	g.AddNode("dst", 2)

	require.NoError(t, g.AddEdge("src", "a", 1, 1))
	require.NoError(t, g.AddEdge("src", "b", 1, 1))
	require.NoError(t, g.AddEdge("a", "dst", 1, 0))
	require.NoError(t, g.AddEdge("b", "dst", 1, 0))

	result, err := g.Solve()
	require.NoError(t, err)

	outflow := result.Outflow("src")
	assert.Equal(t, 1, outflow["a"])
	assert.Equal(t, 1, outflow["b"])
}
