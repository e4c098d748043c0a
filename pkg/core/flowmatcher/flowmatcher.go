// Package flowmatcher assigns users to slots with a layered min-cost
// max-flow formulation: source -> users -> time groups -> slots -> sink.
//
// The first pass routes flow through location-free time groups, which
// keeps the graph small but leaves "which room" ambiguous whenever
// several users land on a time group with several locations. A second,
// much smaller min-cost flow per colliding time group resolves the
// ambiguity using each user's preference for the specific rooms.
package flowmatcher

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mirawen/course-staff-tools/pkg/core/matcher"
	"github.com/mirawen/course-staff-tools/pkg/core/model"
	"github.com/mirawen/course-staff-tools/pkg/graph/mincostflow"
)

const (
	sourceNode = "SOURCE"
	sinkNode   = "SINK"

	userPrefix  = "user/"
	timePrefix  = "time/"
	slotPrefix  = "slot/"
	dummyPrefix = "dummy/"

	// unmatchableCost is large enough that an edge carrying it is never
	// chosen while any feasible alternative exists.
	unmatchableCost = 1e6
)

// preferenceCost maps a positive preference to an edge cost. Higher
// preference means lower cost; the mapping is monotonic decreasing.
// Zero preference means the pair is unmatchable.
func preferenceCost(pref float64) float64 {
	if pref <= 0 {
		return unmatchableCost
	}
	return math.Round(100 / pref)
}

// collision is a time group whose first-pass flow cannot be attributed
// to specific (user, slot) pairs.
type collision struct {
	timeKey string
	users   []model.User
	inflow  map[string]int
	slots   []model.Slot
}

// Match produces an assignment for a single category's problem.
// Preferences must be non-negative; a preference of zero excludes the
// pair entirely (no edge is constructed for it).
func Match(problem *matcher.Problem, logger *zap.Logger) (*matcher.MatchResult, error) {
	result := matcher.NewMatchResult()
	if problem.Empty() {
		return result, nil
	}

	for _, pref := range problem.Preferences {
		if pref.Value < 0 {
			return nil, matcher.ValidationErrorf(
				"flow strategy requires non-negative preferences; user %q has %v for slot %q",
				pref.UserID, pref.Value, pref.SlotID)
		}
	}

	totalMinUsers := 0
	totalMaxUsers := 0
	for _, slot := range problem.Slots {
		totalMinUsers += slot.MinUsers
		totalMaxUsers += slot.MaxUsers
	}
	totalUserCapacity := 0
	for _, user := range problem.Users {
		totalUserCapacity += user.MaxSlots
	}

	if totalMinUsers > totalMaxUsers {
		return nil, matcher.ValidationErrorf(
			"total minimum slot capacity %d exceeds total maximum slot capacity %d",
			totalMinUsers, totalMaxUsers)
	}
	if totalMinUsers > totalUserCapacity {
		return nil, matcher.InfeasibleErrorf(
			"slots require %d assignments but users can supply at most %d",
			totalMinUsers, totalUserCapacity)
	}

	logger.Info("Building flow network",
		zap.String("run_id", result.RunID.String()),
		zap.String("category", string(problem.Category)),
		zap.Int("users", len(problem.Users)),
		zap.Int("slots", len(problem.Slots)),
	)

	graph, err := buildGraph(problem, totalMinUsers, totalUserCapacity)
	if err != nil {
		return nil, err
	}

	flow, err := graph.Solve()
	if err == mincostflow.ErrInfeasible {
		return nil, matcher.InfeasibleErrorf(
			"no flow satisfies all user and slot minimums for category %s", problem.Category)
	}
	if err != nil {
		return nil, err
	}

	assignment, unmatched, err := extractAssignment(problem, flow, logger)
	if err != nil {
		return nil, err
	}

	result.Objective = flow.Cost
	result.Unmatched = unmatched
	switch problem.Category {
	case model.CategoryOH:
		result.OH = assignment
	default:
		result.Section = assignment
	}

	logger.Info("Flow matching complete",
		zap.String("run_id", result.RunID.String()),
		zap.Float64("cost", flow.Cost),
		zap.Int("unmatched", len(unmatched)),
	)

	return result, nil
}

// buildGraph lays out the first-pass network. Slot nodes carry a demand
// equal to their minimum user count, so a solution only exists when
// every minimum is met.
func buildGraph(problem *matcher.Problem, totalMinUsers, totalUserCapacity int) (*mincostflow.Graph, error) {
	graph := mincostflow.NewGraph()
	graph.AddNode(sourceNode, -totalUserCapacity)
	graph.AddNode(sinkNode, totalUserCapacity-totalMinUsers)

	for _, user := range problem.Users {
		graph.AddNode(userPrefix+user.ID, 0)
		if err := graph.AddEdge(sourceNode, userPrefix+user.ID, user.MaxSlots, 0); err != nil {
			return nil, err
		}
	}

	for _, slot := range problem.Slots {
		timeNode := timePrefix + slot.TimeKey()
		if !graph.HasNode(timeNode) {
			graph.AddNode(timeNode, 0)
		}

		// the slot node consumes its minimum; only the remainder of its
		// capacity continues to the sink
		graph.AddNode(slotPrefix+slot.ID, slot.MinUsers)
		if err := graph.AddEdge(timeNode, slotPrefix+slot.ID, slot.MaxUsers, 0); err != nil {
			return nil, err
		}
		if err := graph.AddEdge(slotPrefix+slot.ID, sinkNode, slot.MaxUsers-slot.MinUsers, 0); err != nil {
			return nil, err
		}
	}

	// User to time-group edges cost according to the user's best
	// preference within the group. Zero-preference pairs contribute no
	// edge at all; a user with no positive preference in a group cannot
	// reach it. Ties on the best preference are broken toward the
	// lowest slot ID when the collision pass later picks a room.
	for _, user := range problem.Users {
		bestPrefs := make(map[string]float64)
		for _, slot := range problem.Slots {
			pref := problem.Preference(user.ID, slot.ID)
			if pref <= 0 {
				continue
			}
			if pref > bestPrefs[slot.TimeKey()] {
				bestPrefs[slot.TimeKey()] = pref
			}
		}

		timeKeys := make([]string, 0, len(bestPrefs))
		for key := range bestPrefs {
			timeKeys = append(timeKeys, key)
		}
		sort.Strings(timeKeys)

		for _, key := range timeKeys {
			// capacity 1: a user cannot hold two rooms in one time group
			err := graph.AddEdge(userPrefix+user.ID, timePrefix+key, 1, preferenceCost(bestPrefs[key]))
			if err != nil {
				return nil, err
			}
		}
	}

	// Dummy slots let a user shed assignments above their minimum when
	// no acceptable real slot remains. The cost scales with how many
	// assignments the user has already shed, so real slots are always
	// preferred.
	maxShed := 0
	for _, user := range problem.Users {
		if shed := user.MaxSlots - user.MinSlots; shed > maxShed {
			maxShed = shed
		}
	}

	for shed := 1; shed <= maxShed; shed++ {
		dummy := dummyNode(shed)
		graph.AddNode(dummy, 0)
		if err := graph.AddEdge(dummy, sinkNode, len(problem.Users), 0); err != nil {
			return nil, err
		}
	}

	for _, user := range problem.Users {
		for shed := 1; shed <= user.MaxSlots-user.MinSlots; shed++ {
			err := graph.AddEdge(userPrefix+user.ID, dummyNode(shed), 1, unmatchableCost*float64(shed))
			if err != nil {
				return nil, err
			}
		}
	}

	return graph, nil
}

func dummyNode(shed int) string {
	return dummyPrefix + strconv.Itoa(shed)
}

// extractAssignment reads first-pass flows, assigns users directly where
// the routing is unambiguous, and runs a disambiguation solve per
// colliding time group.
func extractAssignment(problem *matcher.Problem, flow *mincostflow.Result, logger *zap.Logger) (matcher.Assignment, []string, error) {
	assignment := make(matcher.Assignment)

	slotsByTime := make(map[string][]model.Slot)
	for _, slot := range problem.Slots {
		slotsByTime[slot.TimeKey()] = append(slotsByTime[slot.TimeKey()], slot)
	}

	collisions := make(map[string]*collision)

	for _, user := range problem.Users {
		for head, amount := range flow.Outflow(userPrefix + user.ID) {
			if amount == 0 || strings.HasPrefix(head, dummyPrefix) {
				continue
			}
			timeKey := strings.TrimPrefix(head, timePrefix)

			slotFlows := flow.Outflow(head)
			totalOut := 0
			for _, out := range slotFlows {
				totalOut += out
			}

			if len(slotFlows) == 1 || totalOut == 1 {
				// unambiguous: everyone routed through this time group
				// lands in the single room that received flow
				for slotNode, out := range slotFlows {
					if out > 0 {
						assignment.Add(user.ID, strings.TrimPrefix(slotNode, slotPrefix))
						break
					}
				}
				continue
			}

			coll, ok := collisions[timeKey]
			if !ok {
				coll = &collision{timeKey: timeKey, inflow: make(map[string]int)}
				for _, slot := range slotsByTime[timeKey] {
					if flow.Flow(timePrefix+timeKey, slotPrefix+slot.ID) > 0 {
						coll.slots = append(coll.slots, slot)
					}
				}
				collisions[timeKey] = coll
			}
			coll.users = append(coll.users, user)
			coll.inflow[user.ID] = amount
		}
	}

	collisionKeys := make([]string, 0, len(collisions))
	for key := range collisions {
		collisionKeys = append(collisionKeys, key)
	}
	sort.Strings(collisionKeys)

	for _, key := range collisionKeys {
		coll := collisions[key]
		logger.Debug("Resolving collision",
			zap.String("time_group", coll.timeKey),
			zap.Int("users", len(coll.users)),
			zap.Int("slots", len(coll.slots)),
		)
		if err := resolveCollision(problem, coll, assignment); err != nil {
			return nil, nil, err
		}
	}

	var unmatched []string
	for _, user := range problem.Users {
		if len(assignment[user.ID]) == 0 {
			unmatched = append(unmatched, user.ID)
		}
	}
	sort.Strings(unmatched)

	return assignment, unmatched, nil
}

// resolveCollision runs the smaller second-pass solve for one time
// group: each user's supply is pinned to the flow they received in pass
// one, and edges now cost according to the user's preference for the
// specific room. Zero-preference rooms keep a prohibitively expensive
// edge here so the sub-problem stays feasible whenever pass one was.
func resolveCollision(problem *matcher.Problem, coll *collision, assignment matcher.Assignment) error {
	inflowTotal := 0
	for _, amount := range coll.inflow {
		inflowTotal += amount
	}
	collisionMin := 0
	for _, slot := range coll.slots {
		collisionMin += slot.MinUsers
	}

	graph := mincostflow.NewGraph()
	graph.AddNode(sourceNode, -inflowTotal)
	graph.AddNode(sinkNode, inflowTotal-collisionMin)

	for _, user := range coll.users {
		graph.AddNode(userPrefix+user.ID, 0)
		if err := graph.AddEdge(sourceNode, userPrefix+user.ID, coll.inflow[user.ID], 0); err != nil {
			return err
		}
	}

	for _, slot := range coll.slots {
		graph.AddNode(slotPrefix+slot.ID, slot.MinUsers)
		if err := graph.AddEdge(slotPrefix+slot.ID, sinkNode, slot.MaxUsers-slot.MinUsers, 0); err != nil {
			return err
		}
	}

	for _, user := range coll.users {
		for _, slot := range coll.slots {
			pref := problem.Preference(user.ID, slot.ID)
			err := graph.AddEdge(userPrefix+user.ID, slotPrefix+slot.ID, 1, preferenceCost(pref))
			if err != nil {
				return err
			}
		}
	}

	flow, err := graph.Solve()
	if err == mincostflow.ErrInfeasible {
		return matcher.InfeasibleErrorf("collision at %s cannot be resolved", coll.timeKey)
	}
	if err != nil {
		return err
	}

	for _, user := range coll.users {
		for head, amount := range flow.Outflow(userPrefix + user.ID) {
			if amount > 0 {
				assignment.Add(user.ID, strings.TrimPrefix(head, slotPrefix))
			}
		}
	}

	return nil
}
