package email

const subjectNewLeadFmt = "New Lead: %s from %s"
