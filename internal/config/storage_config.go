package config

type StorageConfig interface {
	GetDataFolder() string
	GetStorageNamespace() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetDataFolder() string {
	return GetEnv("FOLDER", "./data")
}

// GetStorageNamespace prefixes every durable key so several apps can share
// one data folder without colliding.
func (Storage) GetStorageNamespace() string {
	return GetEnv("STORAGE_NAMESPACE", "hubdash")
}
