package testutil

import (
	"fmt"
	"html"
	"strings"
)

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// Int64Ptr is a helper for creating *int64 values in tests
func Int64Ptr(v int64) *int64 {
	return &v
}

// BoolPtr is a helper for creating *bool values in tests
func BoolPtr(v bool) *bool {
	return &v
}

// EpisodeItemOptions contains options for generating one item of a season page
type EpisodeItemOptions struct {
	ExternalID    string // Default tt1000<season><episode>
	Title         string
	EpisodeNumber int    // 0 writes content="0"
	OmitNumber    bool   // drop the episodeNumber meta entirely
	Rating        string // rating text, e.g. "8.4"; empty omits the rating element
	OmitTitleLink bool   // drop the a[itemprop=name] element
}

// GenerateSeasonPageHTML generates an IMDb season listing page
func GenerateSeasonPageHTML(season int, items []EpisodeItemOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<html>
<head><meta charset="utf-8"><title>Season %d</title></head>
<body>
<div id="main">
	<h3 id="episode_top" itemprop="name">Season&nbsp;%d</h3>
	<div id="episodes_content">
		<div class="list detail eplist">
`, season, season)

	for i, item := range items {
		if item.ExternalID == "" {
			item.ExternalID = fmt.Sprintf("tt1000%d%02d", season, i+1)
		}

		numberHTML := ""
		if !item.OmitNumber {
			numberHTML = fmt.Sprintf(`<meta itemprop="episodeNumber" content="%d"/>`, item.EpisodeNumber)
		}

		titleHTML := ""
		if !item.OmitTitleLink {
			titleHTML = fmt.Sprintf(`<strong><a href="/title/%s/?ref_=ttep_ep%d" title="%s" itemprop="name">%s</a></strong>`,
				item.ExternalID, i+1, html.EscapeString(item.Title), html.EscapeString(item.Title))
		}

		ratingHTML := ""
		if item.Rating != "" {
			ratingHTML = fmt.Sprintf(`<div class="ipl-rating-widget">
					<div class="ipl-rating-star small">
						<span class="ipl-rating-star__star"></span>
						<span class="ipl-rating-star__rating">%s</span>
						<span class="ipl-rating-star__total-votes">(1,024)</span>
					</div>
				</div>`, item.Rating)
		}

		fmt.Fprintf(&sb, `
		<div class="list_item odd">
			<div class="image">
				<a href="/title/%s/" title="%s"><div data-const="%s" class="hover-over-image zero-z-index"></div></a>
			</div>
			<div class="info" itemprop="episodes" itemscope itemtype="http://schema.org/TVEpisode">
				%s
				<div class="airdate">1 Jan. 2010</div>
				%s
				%s
				<div class="item_description" itemprop="description">An episode.</div>
			</div>
			<div class="clear">&nbsp;</div>
		</div>`, item.ExternalID, html.EscapeString(item.Title), item.ExternalID, numberHTML, titleHTML, ratingHTML)
	}

	sb.WriteString(`
		</div>
	</div>
</div>
</body>
</html>`)

	return sb.String()
}

// CreditOptions contains options for generating a filmography row
type CreditOptions struct {
	ExternalID string
	Title      string
	Year       int
	Annotation string // e.g. "(Short)" or "(TV Series)"; empty marks a feature credit
	Category   string // Default "director"
}

// GenerateFilmographyHTML generates an IMDb name page with a filmography section.
// Credits are written in the order given, which on the real site is most recent first.
func GenerateFilmographyHTML(name string, credits []CreditOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<html>
<head><meta charset="utf-8"><title>%s - IMDb</title></head>
<body>
<div id="name-overview-widget">
	<h1 class="header"> <span class="itemprop">%s</span></h1>
</div>
<div id="filmography">
	<div class="head" data-category="director"><a name="director">Director</a></div>
	<div class="filmo-category-section">
`, html.EscapeString(name), html.EscapeString(name))

	for i, credit := range credits {
		category := credit.Category
		if category == "" {
			category = "director"
		}
		annotation := ""
		if credit.Annotation != "" {
			annotation = " " + credit.Annotation
		}
		fmt.Fprintf(&sb, `
		<div class="filmo-row %s" id="%s-%s">
			<span class="year_column">&nbsp;%d</span>
			<b><a href="/title/%s/?ref_=nm_flmg_dr_%d">%s</a></b>%s
			<br/>
		</div>`, rowParity(i), category, credit.ExternalID, credit.Year, credit.ExternalID, i+1, html.EscapeString(credit.Title), annotation)
	}

	sb.WriteString(`
	</div>
</div>
</body>
</html>`)

	return sb.String()
}

// MoviePageOptions contains options for generating a movie title page.
// Empty strings omit the corresponding block.
type MoviePageOptions struct {
	Title              string
	Budget             string // e.g. "$5,500,000 (estimated)"
	OpeningWeekend     string
	GrossUSA           string
	WorldwideGross     string
	Runtime            string // e.g. "129 min"
	Genres             []string
	OmitTitleDetails   bool
	IncludeStoryLine   *bool
	ExtraDetailsBlocks []string // raw txt-block entries appended to #titleDetails
}

// GenerateMoviePageHTML generates an IMDb title page with details and storyline sections
func GenerateMoviePageHTML(opts MoviePageOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<html>
<head><meta charset="utf-8"><title>%s - IMDb</title></head>
<body>
<div class="title_wrapper"><h1>%s</h1></div>
`, html.EscapeString(opts.Title), html.EscapeString(opts.Title))

	includeStoryLine := true
	if opts.IncludeStoryLine != nil {
		includeStoryLine = *opts.IncludeStoryLine
	}
	if includeStoryLine {
		sb.WriteString(`<div class="article" id="titleStoryLine">
	<h2>Storyline</h2>
`)
		if len(opts.Genres) > 0 {
			sb.WriteString(`	<div class="see-more inline canwrap">
		<h4 class="inline">Genres:</h4>
`)
			for i, genre := range opts.Genres {
				if i > 0 {
					sb.WriteString(`<span>|</span>`)
				}
				fmt.Fprintf(&sb, `		<a href="/search/title?genres=%s">&nbsp;%s</a>
`, strings.ToLower(genre), html.EscapeString(genre))
			}
			sb.WriteString(`	</div>
`)
		}
		sb.WriteString(`</div>
`)
	}

	if !opts.OmitTitleDetails {
		sb.WriteString(`<div class="article" id="titleDetails">
	<h2>Details</h2>
	<div class="txt-block"><h4 class="inline">Country:</h4> <a href="/search/title?country_of_origin=us">USA</a></div>
	<h3 class="subheading">Box Office</h3>
`)
		writeTxtBlock(&sb, "Budget:", opts.Budget)
		writeTxtBlock(&sb, "Opening Weekend USA:", opts.OpeningWeekend)
		writeTxtBlock(&sb, "Gross USA:", opts.GrossUSA)
		writeTxtBlock(&sb, "Cumulative Worldwide Gross:", opts.WorldwideGross)
		sb.WriteString(`	<h3 class="subheading">Technical Specs</h3>
`)
		if opts.Runtime != "" {
			fmt.Fprintf(&sb, `	<div class="txt-block"><h4 class="inline">Runtime:</h4> <time datetime="PT0M">%s</time></div>
`, opts.Runtime)
		}
		for _, block := range opts.ExtraDetailsBlocks {
			sb.WriteString(block)
			sb.WriteString("\n")
		}
		sb.WriteString(`</div>
`)
	}

	sb.WriteString(`</body>
</html>`)

	return sb.String()
}

func writeTxtBlock(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, `	<div class="txt-block"><h4 class="inline">%s</h4> %s <span class="attribute">(estimated)</span></div>
`, label, value)
}

// ReviewOptions contains options for generating one review item
type ReviewOptions struct {
	Title string
	Body  string
}

// GenerateReviewsHTML generates an IMDb user reviews page
func GenerateReviewsHTML(reviews []ReviewOptions) string {
	var sb strings.Builder

	sb.WriteString(`<html>
<head><meta charset="utf-8"><title>User Reviews</title></head>
<body>
<div class="lister">
	<div class="lister-list">
`)

	for i, review := range reviews {
		fmt.Fprintf(&sb, `
		<div class="lister-item mode-detail imdb-user-review %s">
			<div class="review-container">
				<div class="lister-item-content">
					<a href="/review/rw%07d/" class="title"> %s
</a>
					<div class="display-name-date"><span class="review-date">1 January 2020</span></div>
					<div class="content">
						<div class="text show-more__control">%s</div>
					</div>
				</div>
			</div>
		</div>`, rowParity(i), i+1, html.EscapeString(review.Title), html.EscapeString(review.Body))
	}

	sb.WriteString(`
	</div>
</div>
</body>
</html>`)

	return sb.String()
}

// SearchResultOptions contains options for generating a name search result row
type SearchResultOptions struct {
	ExternalID string
	Name       string
}

// GenerateNameSearchHTML generates an IMDb /find results page for names
func GenerateNameSearchHTML(results []SearchResultOptions) string {
	var sb strings.Builder

	sb.WriteString(`<html>
<head><meta charset="utf-8"><title>Find - IMDb</title></head>
<body>
<div class="findSection">
	<h3 class="findSectionHeader"><a name="nm"></a>Names</h3>
	<table class="findList">
`)

	for i, result := range results {
		fmt.Fprintf(&sb, `
		<tr class="findResult %s">
			<td class="primary_photo"><a href="/name/%s/?ref_=fn_nm_nm_%d"><img src="pic.jpg"/></a></td>
			<td class="result_text"> <a href="/name/%s/?ref_=fn_nm_nm_%d">%s</a> (Director)</td>
		</tr>`, rowParity(i), result.ExternalID, i+1, result.ExternalID, i+1, html.EscapeString(result.Name))
	}

	sb.WriteString(`
	</table>
</div>
</body>
</html>`)

	return sb.String()
}

func rowParity(i int) string {
	if i%2 == 0 {
		return "odd"
	}
	return "even"
}
