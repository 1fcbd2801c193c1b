package config

// DefaultConfigYAML embedded default configuration. External config files and
// TRACKER_* environment variables override these values.
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "tracker"
  password: "tracker"
  dbname: "expense_tracker"
  charset: "utf8mb4"

jwt:
  secret: "change-me-in-production"
  access_expire_minutes: 60
  reset_expire_minutes: 60

otp:
  expire_minutes: 10

email:
  enabled: false
  host: "smtp.gmail.com"
  port: 587
  username: ""
  password: ""
  from: "Expense Tracker"
`)
