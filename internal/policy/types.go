package policy

type ModelPolicy struct {
	ModelID        string  `json:"model_id"`
	Priority       int     `json:"priority"` // 0..100, higher = keep longer; seeds the profile priority score
	Pinned         bool    `json:"pinned"`
	ExpectedVRAMMB float64 `json:"expected_vram_mb"`
	TTLSecs        int64   `json:"ttl_secs"` // 0 = no TTL unload
}
