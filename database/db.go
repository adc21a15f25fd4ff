package database

import (
	"database/sql"
	"sync"
	"time"

	"github.com/blnkfinance/onboard/config"
	"github.com/blnkfinance/onboard/internal/cache"
	pgconn "github.com/blnkfinance/onboard/internal/pg-conn"
	"github.com/sirupsen/logrus"
)

// Declare a package-level variable to hold the singleton instance.
var instance *Datasource
var once sync.Once

// queryTimeout bounds every datasource call.
const queryTimeout = 1 * time.Minute

const defaultCacheTTL = 5 * time.Minute

type Datasource struct {
	Conn     *sql.DB
	Cache    cache.Cache
	CacheTTL time.Duration
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := pgconn.ConnectDB(configuration.DataSource)
		if errConn != nil {
			err = errConn
			return
		}

		cacheInstance, errCache := cache.NewCache()
		if errCache != nil {
			logrus.WithError(errCache).Warn("customer cache unavailable, continuing without it")
			cacheInstance = nil
		}

		ttl := time.Duration(configuration.Onboarding.CustomerCacheTTL) * time.Second
		instance = &Datasource{Conn: con, Cache: cacheInstance, CacheTTL: ttl}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func (d Datasource) cacheTTL() time.Duration {
	if d.CacheTTL <= 0 {
		return defaultCacheTTL
	}
	return d.CacheTTL
}
