package config

type PostgreSQLConfig struct {
	DBHost     string
	DBName     string
	DBPort     string
	DBUsername string
	DBPassword string
	SSLMode    string
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
}
