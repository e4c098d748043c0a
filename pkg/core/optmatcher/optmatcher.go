// Package optmatcher assigns users to slots by maximizing a weighted
// preference objective with a 0/1 integer program, solved by GLPK.
//
// It handles both categories in one program: the section and OH
// objectives are combined with a configured bias, cross-category time
// conflicts link the two variable sets, and optional bonus terms reward
// consecutive and same-time assignments.
package optmatcher

import (
	"fmt"

	"github.com/lukpank/go-glpk/glpk"
	"go.uber.org/zap"

	"github.com/mirawen/course-staff-tools/pkg/core/matcher"
	"github.com/mirawen/course-staff-tools/pkg/core/model"
	"github.com/mirawen/course-staff-tools/pkg/core/schedule"
)

// Match solves the combined section/OH assignment problem.
// Either problem may be nil or empty. On success every hard constraint
// holds; if the feasible region is empty the error is an InfeasibleError
// and no partial assignment is returned.
func Match(section, oh *matcher.Problem, cfg matcher.Config, logger *zap.Logger) (*matcher.MatchResult, error) {
	if cfg.SectionBias < 0 || cfg.SectionBias > 1 {
		return nil, matcher.ValidationErrorf("section bias %v outside [0, 1]", cfg.SectionBias)
	}
	if !cfg.GlobalConsecutiveBonus.IsValid() {
		return nil, matcher.ValidationErrorf("unknown global consecutive bonus scope %q", cfg.GlobalConsecutiveBonus)
	}

	result := matcher.NewMatchResult()

	prog := newProgram("course-staff-match")
	defer prog.delete()

	logger.Info("Building integer program",
		zap.String("run_id", result.RunID.String()),
		zap.Float64("section_bias", cfg.SectionBias),
	)

	if !section.Empty() {
		if err := buildCategory(prog, section, cfg, cfg.SectionBias); err != nil {
			return nil, err
		}
	}
	if !oh.Empty() {
		if err := buildCategory(prog, oh, cfg, 1-cfg.SectionBias); err != nil {
			return nil, err
		}
	}

	if cfg.CrossCategoryConflicts && !section.Empty() && !oh.Empty() {
		if err := addCrossConflicts(prog, section, oh); err != nil {
			return nil, err
		}
	}

	if cfg.GlobalConsecutiveBonus == matcher.GlobalBonusSection || cfg.GlobalConsecutiveBonus == matcher.GlobalBonusAll {
		if !section.Empty() {
			addGlobalConsecutiveBonus(prog, section, cfg)
		}
	}
	if cfg.GlobalConsecutiveBonus == matcher.GlobalBonusOH || cfg.GlobalConsecutiveBonus == matcher.GlobalBonusAll {
		if !oh.Empty() {
			addGlobalConsecutiveBonus(prog, oh, cfg)
		}
	}

	prog.flushObjective()

	logger.Debug("Program built",
		zap.Int("columns", prog.numCols),
		zap.Int("rows", prog.numRows),
	)

	if prog.numCols == 0 {
		// nothing to assign
		return result, nil
	}

	objective, err := solve(prog)
	if err != nil {
		return nil, err
	}

	for key, col := range prog.vars {
		if prog.lp.MipColVal(col) > 0.5 {
			switch key.category {
			case model.CategoryOH:
				result.OH.Add(key.userID, key.slotID)
			default:
				result.Section.Add(key.userID, key.slotID)
			}
		}
	}
	result.Objective = objective

	logger.Info("Optimization complete",
		zap.String("run_id", result.RunID.String()),
		zap.Float64("objective", objective),
	)

	return result, nil
}

// buildCategory adds one category's variables, hard constraints, and
// scaled objective terms to the program.
func buildCategory(prog *program, problem *matcher.Problem, cfg matcher.Config, scale float64) error {
	// one binary per pair with nonzero preference; negative preferences
	// get a variable too, acting as a disincentive rather than a hard
	// exclusion
	for _, user := range problem.Users {
		for _, slot := range problem.Slots {
			pref := problem.Preference(user.ID, slot.ID)
			if pref == 0 {
				continue
			}
			key := varKey{category: problem.Category, userID: user.ID, slotID: slot.ID}
			col := prog.addBinary(fmt.Sprintf("%s/%s/%s", problem.Category, user.ID, slot.ID))
			prog.vars[key] = col
			prog.addObj(col, scale*pref)

			if cfg.MaximizeFilledSlots {
				prog.addObj(col, scale*cfg.MaximizeFilledSlotsWeight)
			}
		}
	}

	// per-user assignment count bounds
	for _, user := range problem.Users {
		var cols []int
		for _, slot := range problem.Slots {
			if col, ok := prog.vars[varKey{problem.Category, user.ID, slot.ID}]; ok {
				cols = append(cols, col)
			}
		}
		if len(cols) == 0 {
			if user.MinSlots > 0 {
				return matcher.InfeasibleErrorf(
					"user %q requires at least %d %s slots but has none assignable",
					user.ID, user.MinSlots, problem.Category)
			}
			continue
		}
		addCountRow(prog, fmt.Sprintf("%s/user/%s", problem.Category, user.ID),
			user.MinSlots, user.MaxSlots, cols)
	}

	// per-slot assignment count bounds
	for _, slot := range problem.Slots {
		var cols []int
		for _, user := range problem.Users {
			if col, ok := prog.vars[varKey{problem.Category, user.ID, slot.ID}]; ok {
				cols = append(cols, col)
			}
		}
		if len(cols) == 0 {
			if slot.MinUsers > 0 {
				return matcher.InfeasibleErrorf(
					"slot %q requires at least %d users but nobody can take it",
					slot.ID, slot.MinUsers)
			}
			continue
		}
		addCountRow(prog, fmt.Sprintf("%s/slot/%s", problem.Category, slot.ID),
			slot.MinUsers, slot.MaxUsers, cols)
	}

	// time conflicts: at most one of each overlapping pair per user
	conflicts, err := schedule.Conflicts(problem.Slots)
	if err != nil {
		return matcher.ValidationErrorf("detecting conflicts for %s slots: %v", problem.Category, err)
	}
	for _, conflict := range conflicts {
		for _, user := range problem.Users {
			x1, ok1 := prog.vars[varKey{problem.Category, user.ID, conflict.A.ID}]
			x2, ok2 := prog.vars[varKey{problem.Category, user.ID, conflict.B.ID}]
			if !ok1 || !ok2 {
				continue
			}
			prog.addRow(fmt.Sprintf("conflict/%s/%s/%s", user.ID, conflict.A.ID, conflict.B.ID),
				glpk.BndsType(glpk.UP), 0, 1, []int{x1, x2}, []float64{1, 1})
		}
	}

	// per-user bonuses for back-to-back and repeated-time slots
	for i := 0; i < len(problem.Slots); i++ {
		for j := i + 1; j < len(problem.Slots); j++ {
			slot1, slot2 := problem.Slots[i], problem.Slots[j]

			consecutive := cfg.ConsecutiveBonus && schedule.IsConsecutive(slot1, slot2, cfg.ConflictTolerance)
			sameTime := cfg.SameTimeBonus && schedule.IsSameTime(slot1, slot2, cfg.ConflictTolerance)
			if !consecutive && !sameTime {
				continue
			}

			weight := cfg.ConsecutiveBonusWeight
			label := "consecutive"
			if sameTime {
				weight = cfg.SameTimeBonusWeight
				label = "sametime"
			}

			for _, user := range problem.Users {
				x1, ok1 := prog.vars[varKey{problem.Category, user.ID, slot1.ID}]
				x2, ok2 := prog.vars[varKey{problem.Category, user.ID, slot2.ID}]
				if !ok1 || !ok2 {
					continue
				}
				y := prog.linearAnd(fmt.Sprintf("%s/%s/%s&%s", label, user.ID, slot1.ID, slot2.ID), x1, x2)
				prog.addObj(y, scale*weight)
			}
		}
	}

	return nil
}

// addCountRow bounds the sum of the given binary columns to [min, max].
func addCountRow(prog *program, name string, minCount, maxCount int, cols []int) {
	coefs := make([]float64, len(cols))
	for i := range coefs {
		coefs[i] = 1
	}

	boundsType := glpk.BndsType(glpk.DB)
	if minCount == maxCount {
		boundsType = glpk.BndsType(glpk.FX)
	}
	prog.addRow(name, boundsType, float64(minCount), float64(maxCount), cols, coefs)
}

// addCrossConflicts forbids a user holding a section and an OH slot
// that overlap in time. Only users present in both categories matter.
func addCrossConflicts(prog *program, section, oh *matcher.Problem) error {
	conflicts, err := schedule.CrossConflicts(section.Slots, oh.Slots)
	if err != nil {
		return matcher.ValidationErrorf("detecting cross-category conflicts: %v", err)
	}

	ohUsers := make(map[string]bool, len(oh.Users))
	for _, user := range oh.Users {
		ohUsers[user.ID] = true
	}

	for _, user := range section.Users {
		if !ohUsers[user.ID] {
			continue
		}
		for _, conflict := range conflicts {
			x1, ok1 := prog.vars[varKey{model.CategorySection, user.ID, conflict.A.ID}]
			x2, ok2 := prog.vars[varKey{model.CategoryOH, user.ID, conflict.B.ID}]
			if !ok1 || !ok2 {
				continue
			}
			prog.addRow(fmt.Sprintf("cross/%s/%s/%s", user.ID, conflict.A.ID, conflict.B.ID),
				glpk.BndsType(glpk.UP), 0, 1, []int{x1, x2}, []float64{1, 1})
		}
	}

	return nil
}

// addGlobalConsecutiveBonus rewards back-to-back slot pairs being
// staffed by anyone at all: OR over users per slot, then AND across the
// pair. Added after the bias weighting, so the weight applies directly.
func addGlobalConsecutiveBonus(prog *program, problem *matcher.Problem, cfg matcher.Config) {
	for i := 0; i < len(problem.Slots); i++ {
		for j := i + 1; j < len(problem.Slots); j++ {
			slot1, slot2 := problem.Slots[i], problem.Slots[j]
			if !schedule.IsConsecutive(slot1, slot2, cfg.ConflictTolerance) {
				continue
			}

			z1, ok1 := slotOccupied(prog, problem, slot1)
			z2, ok2 := slotOccupied(prog, problem, slot2)
			if !ok1 || !ok2 {
				continue
			}

			y := prog.linearAnd(fmt.Sprintf("global/%s/%s&%s", problem.Category, slot1.ID, slot2.ID), z1, z2)
			prog.addObj(y, cfg.GlobalConsecutiveBonusWeight)
		}
	}
}

// slotOccupied returns a binary column that is 1 iff any user occupies
// the slot. Returns false when no user can take the slot at all.
func slotOccupied(prog *program, problem *matcher.Problem, slot model.Slot) (int, bool) {
	var cols []int
	for _, user := range problem.Users {
		if col, ok := prog.vars[varKey{problem.Category, user.ID, slot.ID}]; ok {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return 0, false
	}
	return prog.linearOr(fmt.Sprintf("occupied/%s/%s", problem.Category, slot.ID), cols), true
}

// solve runs the simplex relaxation and then the integer optimizer.
func solve(prog *program) (float64, error) {
	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))

	if err := prog.lp.Simplex(smcp); err != nil {
		return 0, fmt.Errorf("simplex solver failed: %w", err)
	}
	if status := prog.lp.Status(); status == glpk.NOFEAS || status == glpk.INFEAS {
		return 0, matcher.InfeasibleErrorf("no assignment satisfies all hard constraints")
	}

	iocp := glpk.NewIocp()
	iocp.SetPresolve(true)
	iocp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))

	if err := prog.lp.Intopt(iocp); err != nil {
		return 0, matcher.InfeasibleErrorf("integer solve failed: %v", err)
	}

	status := prog.lp.MipStatus()
	if status != glpk.OPT && status != glpk.FEAS {
		return 0, matcher.InfeasibleErrorf("solver finished with status %v", status)
	}

	return prog.lp.MipObjVal(), nil
}
