package shared

const (
	LevelFloorDB      = -90.0  // dBFS reported for silence by level meters
	LoudnessFloorLUFS = -70.0  // LUFS reported for silence and below the absolute gate
	LevelEpsilon      = 1e-8   // linear amplitude below which LevelFloorDB is reported
	LoudnessEpsilon   = 1e-10  // mean square below which LoudnessFloorLUFS is reported
	LoudnessOffset    = -0.691 // BS.1770 K-weighting calibration offset

	// SampleLimit bounds finite input so squares and filter histories stay finite (+60 dBFS).
	SampleLimit = 1e3
)
