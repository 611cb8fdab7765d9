package tlb

// findVictim returns the slot to (re)use for a new mapping in a level:
// the first invalid slot in index order, or the valid slot with the
// minimum lastAccess. Ties go to the lowest index, which the shared
// access counter makes unreachable once entries have been touched, but
// keeps selection deterministic on degenerate state. No side effects;
// the caller inspects the returned slot to decide about write-back or
// forwarding.
func findVictim(entries []entry) int {
	for i := range entries {
		if !entries[i].valid {
			return i
		}
	}

	victim := 0
	oldest := entries[0].lastAccess
	for i := 1; i < len(entries); i++ {
		if entries[i].lastAccess < oldest {
			oldest = entries[i].lastAccess
			victim = i
		}
	}
	return victim
}

// findVictimExcluding is findVictim with one index off-limits. Promotion
// uses it when the victim search for a displaced L1 mapping lands on the
// L2 slot that just produced the hit: overwriting that slot would corrupt
// the entry being promoted, so the next-oldest distinct slot is taken
// instead. Assumes len(entries) > 1.
func findVictimExcluding(entries []entry, skip int) int {
	for i := range entries {
		if i != skip && !entries[i].valid {
			return i
		}
	}

	victim := -1
	var oldest uint64
	for i := range entries {
		if i == skip {
			continue
		}
		if victim < 0 || entries[i].lastAccess < oldest {
			oldest = entries[i].lastAccess
			victim = i
		}
	}
	return victim
}
