// ABOUTME: SQLite database schema for the assistant's local store
// ABOUTME: Users, events with locations and reminders, memories and chat history
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Per-user settings
CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    wake_word TEXT NOT NULL DEFAULT 'mindmate',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Named places events happen at
CREATE TABLE IF NOT EXISTS locations (
    location_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    UNIQUE(user_id, name)
);

-- Events; start_time is 'YYYY-MM-DD HH:MM' local time so prefix and range matches work on text
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    category TEXT,
    start_time TEXT,
    end_time TEXT,
    location_id INTEGER REFERENCES locations(location_id) ON DELETE SET NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reminders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    trigger_time TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    recurrence_rule TEXT,
    priority_level TEXT NOT NULL DEFAULT 'Medium'
);

-- Standalone facts worth remembering
CREATE TABLE IF NOT EXISTS memories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    memory_type TEXT NOT NULL DEFAULT 'fact',
    content TEXT NOT NULL,
    confidence_score REAL NOT NULL DEFAULT 0.5,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Append-only chat history; id order is arrival order
CREATE TABLE IF NOT EXISTS chat_messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    sender TEXT NOT NULL,
    text TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_events_user_start ON events(user_id, start_time);
CREATE INDEX IF NOT EXISTS idx_reminders_event ON reminders(event_id);
CREATE INDEX IF NOT EXISTS idx_memories_user ON memories(user_id);
CREATE INDEX IF NOT EXISTS idx_chat_user ON chat_messages(user_id, id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
