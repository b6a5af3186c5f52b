package cfg

type MockLoader struct {
	Override func(*Config)
}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

// Load trả về cấu hình mặc định, chạy sqlite trong bộ nhớ và tắt các dịch vụ ngoài
func (ml *MockLoader) Load() (*Config, error) {
	config := Default()
	config.App.Name = "gitgrade-test"
	config.Database.SqlitePath = ":memory:"
	config.Llm.Provider = "mock"
	config.Log.Backend = "console"
	if ml.Override != nil {
		ml.Override(config)
	}
	return config, nil
}
