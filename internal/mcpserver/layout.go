package mcpserver

// CorpusLayout describes how the documentation tree is organized, so LLM
// consumers can form valid catalog and document queries.
const CorpusLayout = `# Ansuz Documentation Layout

The documentation corpus is a two-level directory tree of Markdown files.

## Structure

` + "```" + `
docs/
  Tech_Learning/            # category (Capitalized_Underscore on disk)
    Programming/            # subcategory
      2024-03-02_Closures.md
      style-guide.md
  Daily_Life/
    Cooking/
      2023-11-05_Bread.md
` + "```" + `

## Rules

1. **Categories and subcategories** are directories. On disk they use
   Capitalized_Underscore names; in URLs and tool arguments the lowercase
   hyphenated form (` + "`" + `tech-learning` + "`" + `) works too - both are accepted.
2. **Documents** are ` + "`" + `.md` + "`" + ` files exactly two levels deep. Files anywhere
   else are invisible to the catalog.
3. **Date prefix.** A file name may start with ` + "`" + `YYYY-MM-DD_` + "`" + `; the prefix
   becomes the document date. Undated files are allowed.
4. **Title.** The first line, when it is a level-1 heading (` + "`" + `# Title` + "`" + `),
   becomes the document title and is not part of the body. YAML frontmatter
   with ` + "`" + `title` + "`" + ` or ` + "`" + `date` + "`" + ` fields overrides both conventions.
5. **Slugs.** The document slug is the file-name stem, date prefix included
   (e.g. ` + "`" + `2024-03-02_Closures` + "`" + `). Fuzzy lookup also accepts the stem
   without the date prefix, a prefix of it, or an accent-folded substring.
6. **Encoding** is UTF-8. Assets referenced from documents live next to
   them in the tree and are served read-only.
`
