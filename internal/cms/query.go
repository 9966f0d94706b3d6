package cms

// ProjectsQuery lists every published project, newest first. Description
// carries both the structured document (raw) and its plain-text rendering.
const ProjectsQuery = `query Projects {
  projects(orderBy: year_DESC, stage: PUBLISHED) {
    slug
    title
    client
    scope
    year
    category
    description {
      raw
      text
      references {
        ... on Asset {
          id
          url
          mimeType
          fileName
        }
      }
    }
    images {
      url
      fileName
    }
  }
}`
