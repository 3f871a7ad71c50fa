package connection_test

import (
	"testing"

	"go-vacation/internal/config"
	"go-vacation/internal/shared/connection"

	"github.com/stretchr/testify/assert"
)

func TestBrokerList(t *testing.T) {
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, connection.BrokerList(" kafka-1:9092, kafka-2:9092 ,"))
	assert.Nil(t, connection.BrokerList("not-a-broker"))
	assert.Nil(t, connection.BrokerList(""))
}

func TestDSN(t *testing.T) {
	dsn := connection.DSN(config.DatabaseConfig{
		Host: "db", User: "app", Password: "secret", Name: "vacation", Port: "5432", SSLMode: "disable",
	})

	assert.Equal(t, "host=db user=app password=secret dbname=vacation port=5432 sslmode=disable", dsn)
}
