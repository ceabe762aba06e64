package scheduler

// maxPointsPerShift is the satisfaction ceiling for one assignment: a
// rank-1 department earns 8 points, a rank-8 department 1 point,
// unranked 0.
const maxPointsPerShift = 8

// WorkerSummary aggregates one worker's outcome in a final schedule
type WorkerSummary struct {
	Worker string

	TotalHours   float64
	ShiftsWorked int
	NightShifts  int

	// PreferenceSatisfaction is the achieved share of the best
	// possible preference points, as a percentage. Zero when the
	// worker holds no shifts. This is the figure fed into next
	// period's HistoricalScores.
	PreferenceSatisfaction float64

	// PreferencePenalty is the summed base rank of every assignment
	PreferencePenalty float64
}

// Summaries derives the per-worker report figures from a final
// schedule, in worker load order
func (s *Scheduler) Summaries(sched *Schedule) []WorkerSummary {
	byName := make(map[string]*WorkerSummary, len(s.workers))
	summaries := make([]WorkerSummary, len(s.workers))
	for i, w := range s.workers {
		summaries[i] = WorkerSummary{Worker: w.Name}
		byName[w.Name] = &summaries[i]
	}

	points := make(map[string]float64, len(s.workers))

	for _, date := range sched.Dates {
		for _, code := range sched.ShiftCodes {
			v := sched.Get(date, code)
			if v == CellNoShift || v == CellUnfilled {
				continue
			}
			sum, known := byName[v]
			st := s.shiftsByCode[code]
			if !known || st == nil {
				continue
			}
			w := s.workersByName[v]
			rank := w.PreferenceRank(st.Department)

			sum.TotalHours += st.Hours
			sum.ShiftsWorked++
			if st.Night {
				sum.NightShifts++
			}
			sum.PreferencePenalty += float64(rank)
			if earned := 9 - rank; earned > 0 {
				points[v] += float64(earned)
			}
		}
	}

	for i := range summaries {
		sum := &summaries[i]
		if sum.ShiftsWorked == 0 {
			continue
		}
		maxPoints := float64(sum.ShiftsWorked * maxPointsPerShift)
		sum.PreferenceSatisfaction = points[sum.Worker] / maxPoints * 100
	}
	return summaries
}
