package sources

// YouTube extraction is split across four files by responsibility:
//   youtube_innertube.go  Innertube API types, constants, and low-level HTTP primitives
//   youtube_captions.go   caption track selection and subtitle document download
//                         (VTT, timedtext XML, engagement panel segments)
//   youtube_metadata.go   video metadata from the player response, watch-page
//                         meta tags, and the oEmbed endpoint
//   youtube_fetch.go      video reference parsing and the strategy chain
//                         (watch-page scrape, ANDROID player, engagement panel)
