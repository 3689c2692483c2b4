package scheduler

import "sort"

// RebuildSegments packs all profiles from offset 0, oldest load first, and
// appends one trailing free segment so that segment sizes always sum to the
// memory threshold. This is also the defragmentation compaction step.
func (s *Scheduler) RebuildSegments() {
	threshold := s.threshold()

	profiles := s.Profiles()
	sort.Slice(profiles, func(i, j int) bool {
		if !profiles[i].LoadedAt.Equal(profiles[j].LoadedAt) {
			return profiles[i].LoadedAt.Before(profiles[j].LoadedAt)
		}
		return profiles[i].ModelID < profiles[j].ModelID
	})

	segs := make([]MemorySegment, 0, len(profiles)+1)
	var offset float64
	for _, p := range profiles {
		segs = append(segs, MemorySegment{
			StartOffsetMB: offset,
			SizeMB:        p.CurrentMemoryMB,
			ModelID:       p.ModelID,
		})
		offset += p.CurrentMemoryMB
	}
	if threshold > offset {
		segs = append(segs, MemorySegment{
			StartOffsetMB: offset,
			SizeMB:        threshold - offset,
			IsFree:        true,
		})
	}

	s.segmentsMu.Lock()
	s.segments = segs
	s.segmentsMu.Unlock()
}

// freeSegment marks a model's segment free in place, leaving a hole. Holes
// accumulate between rebuilds and drive the fragmentation percentage.
func (s *Scheduler) freeSegment(modelID string) {
	s.segmentsMu.Lock()
	defer s.segmentsMu.Unlock()

	for i := range s.segments {
		if s.segments[i].ModelID == modelID {
			s.segments[i].ModelID = ""
			s.segments[i].IsFree = true
		}
	}
}

// Segments returns a copy of the current segment map, rebuilding it first if
// it has never been built.
func (s *Scheduler) Segments() []MemorySegment {
	s.segmentsMu.Lock()
	empty := len(s.segments) == 0
	s.segmentsMu.Unlock()

	if empty {
		s.RebuildSegments()
	}

	s.segmentsMu.Lock()
	defer s.segmentsMu.Unlock()
	return append([]MemorySegment(nil), s.segments...)
}

// FragmentationPct computes how split the free space is: 0 when free memory
// is one contiguous block (or absent), approaching 100 as it shatters.
func FragmentationPct(segments []MemorySegment) float64 {
	var totalFree, largestFree float64
	for _, seg := range segments {
		if !seg.IsFree {
			continue
		}
		totalFree += seg.SizeMB
		if seg.SizeMB > largestFree {
			largestFree = seg.SizeMB
		}
	}
	if totalFree <= 0 {
		return 0
	}
	return (1 - largestFree/totalFree) * 100
}
