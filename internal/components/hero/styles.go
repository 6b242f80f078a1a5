package hero

// Stylesheet lays out the banner. The language strip never wraps: entries
// that do not fit are clipped with an ellipsis and the remainder indicator
// keeps its width, so long lists cannot break the layout.
const Stylesheet = `
.hero { display: flex; flex-wrap: wrap; align-items: center; gap: 2rem; padding: 3rem 1.5rem; font-family: system-ui, -apple-system, sans-serif; }
.hero-copy { flex: 1 1 22rem; min-width: 0; }
.hero-title { font-size: 2.25rem; font-weight: 800; margin: 0 0 1rem; }
.hero-description { font-size: 1.125rem; line-height: 1.6; color: #333; margin: 0 0 1.5rem; }
.hero-cta { display: inline-block; padding: 0.75rem 1.5rem; border-radius: 999px; color: #fff; font-weight: 700; text-decoration: none; }
.hero-media { flex: 0 1 20rem; }
.hero-image { width: 100%; height: auto; display: block; }
.hero-meta { display: flex; flex-wrap: wrap; align-items: center; gap: 1rem; margin-top: 1.5rem; font-size: 0.875rem; color: #666; }
.hero-badge strong { color: var(--hero-theme); }
.hero-languages { max-width: 100%; min-width: 0; overflow: hidden; }
.hero-languages ul { display: flex; flex-wrap: nowrap; gap: 0.75rem; list-style: none; margin: 0; padding: 0; }
.hero-languages li { min-width: 0; white-space: nowrap; overflow: hidden; text-overflow: ellipsis; }
.hero-languages li:last-child { flex-shrink: 0; }
.hero-languages a { color: inherit; }
.hero-remainder { font-weight: 700; color: var(--hero-theme); }
`
