package model

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion string          `json:"app_version"`
	DbVersion  string          `json:"db_version"`
	Features   map[string]bool `json:"features"`
}

// StoreStatus summarizes the record store for status and health endpoints.
type StoreStatus struct {
	Loading  bool           `json:"loading"`
	Error    *string        `json:"error"`
	LoadedAt *string        `json:"loadedAt"`
	Counts   map[string]int `json:"counts"`
}
