package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	TelegramBot TelegramBot
	Sleeper     Sleeper
	Storage     Storage
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type Sleeper struct {
	Username  string   `envconfig:"SLEEPER_USERNAME" required:"true"`
	LeagueIDs []string `envconfig:"LEAGUE_IDS" required:"true"`
}

type Storage struct {
	DBPath      string `envconfig:"DB_PATH" default:"huddlebot.db"`
	ROSCSVPath  string `envconfig:"ROS_CSV_PATH"`
	WeekCSVPath string `envconfig:"WEEK_CSV_PATH"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
