package repository

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

const Schema = "housecup"

var channelPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// changeFeedQueries install a row trigger on matches and results that
// publishes a small json envelope on the notification channel. Listeners
// treat the envelope as a hint only and always re-read.
func changeFeedQueries(channel string) []string {
	return []string{
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION %[1]s.notify_change() RETURNS trigger AS $$
DECLARE
	row_data json;
BEGIN
	IF TG_OP = 'DELETE' THEN
		row_data := row_to_json(OLD);
	ELSE
		row_data := row_to_json(NEW);
	END IF;
	PERFORM pg_notify('%[2]s', json_build_object(
		'table', TG_TABLE_NAME,
		'op', lower(TG_OP),
		'match_id', COALESCE(row_data->>'match_id', row_data->>'id'),
		'sector', row_data->>'sector',
		'version', (row_data->>'version')::int,
		'at', now()
	)::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`, Schema, channel),
		fmt.Sprintf(`CREATE TRIGGER matches_notify AFTER INSERT OR UPDATE OR DELETE ON %[1]s.matches
	FOR EACH ROW EXECUTE FUNCTION %[1]s.notify_change()`, Schema),
		fmt.Sprintf(`CREATE TRIGGER results_notify AFTER INSERT OR DELETE ON %[1]s.results
	FOR EACH ROW EXECUTE FUNCTION %[1]s.notify_change()`, Schema),
	}
}

// Migrate creates the schema, the tables and the change feed trigger.
func Migrate(db *gorm.DB, channel string) error {
	if !channelPattern.MatchString(channel) {
		return fmt.Errorf("invalid notification channel %q", channel)
	}
	if err := db.Exec(`CREATE SCHEMA IF NOT EXISTS ` + Schema).Error; err != nil {
		return err
	}
	if err := db.AutoMigrate(&Match{}, &Result{}, &Profile{}); err != nil {
		return err
	}
	for _, query := range changeFeedQueries(channel) {
		if err := db.Exec(query).Error; err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return err
		}
	}
	return nil
}
