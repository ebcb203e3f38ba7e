package mcpserver

// MemoFormatContract describes the canonical memo shape that LLM consumers
// should follow when creating memos.
const MemoFormatContract = `# Memora Memo Format Contract

Every memo stored in Memora has this shape.

## Fields

- **title** — REQUIRED. Short human-readable title, at most 200 characters.
- **content** — REQUIRED. Markdown body. Standard Markdown only; no HTML.
- **category** — REQUIRED. Exactly one of: ` + "`personal`, `work`, `study`, `idea`, `other`" + `.
- **tags** — OPTIONAL. Lowercase, kebab-case strings (e.g. ` + "`meeting-notes`" + `).

## Rules

1. **Categories are a fixed set.** Anything outside the five values above is
   rejected as invalid input.
2. **Inline hashtags become tags.** Any ` + "`#hashtag`" + ` in the content is extracted,
   lowercased, and merged into the tag set. Duplicates collapse.
3. **Tags are normalised.** Whitespace is trimmed and values are lowercased.
4. **Timestamps are managed by the server.** Never supply created/updated times.
5. **Ids are server-generated UUIDs.** Use the id returned by create_memo for
   later reads and summaries.

## Example

` + "```" + `
title:    Weekly standup 2025-01-20
category: work
tags:     meeting-notes
content:  |
  # Weekly standup

  Attendees: Alice, Bob.

  - Alice to review the design doc #project-x
  - Bob to update the roadmap
` + "```" + `

The resulting memo carries the tags ` + "`meeting-notes`" + ` and ` + "`project-x`" + `.
`
