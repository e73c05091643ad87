package warn

// FormRegions consolidates a binned level map into contiguous warning
// regions. Levels are processed from the highest present down to one above
// the lowest; everything not claimed by a higher level stays at the minimum
// level. Per level, a selection mask is built, valued with the level where
// selected and zero elsewhere, filtered through the operation pipeline, and
// merged into the running map with an element-wise maximum so higher levels
// formed earlier are never overwritten.
//
// With gradualDecrease the selection includes cells the running map already
// holds above the current level, making severe regions shed one level at a
// time toward the background. Without it each level is selected by exact
// match, and a severe region may border an arbitrarily lower one.
//
// A flat input (max level == min level) returns a uniform map untouched by
// the pipeline.
func FormRegions(binned *LevelMap, ops []Op, gradualDecrease bool) *LevelMap {
	maxLvl := binned.Max()
	minLvl := binned.Min()

	warnMap := NewLevelMap(binned.Rows, binned.Cols)
	for i := range warnMap.Data {
		warnMap.Data[i] = minLvl
	}

	for lvl := maxLvl; lvl > minLvl; lvl-- {
		mask := NewLevelMap(binned.Rows, binned.Cols)
		for i := range binned.Data {
			selected := binned.Data[i] == lvl
			if gradualDecrease {
				selected = warnMap.Data[i] > lvl || binned.Data[i] >= lvl
			}
			if selected {
				mask.Data[i] = lvl
			}
		}

		region := applyOps(mask, ops)

		for i := range warnMap.Data {
			if region.Data[i] > warnMap.Data[i] {
				warnMap.Data[i] = region.Data[i]
			}
		}
	}

	return warnMap
}
